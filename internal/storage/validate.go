package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder for dimension probing
	_ "image/jpeg" // register decoder for dimension probing
	_ "image/png"  // register decoder for dimension probing
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/evermarks/evermark-minter/internal/domain"
)

// ValidatedImage is an image that passed validation
type ValidatedImage struct {
	ContentType string
	Width       int
	Height      int
}

// ValidateImage checks the payload against the allow-list and size ceiling.
// The content type is sniffed from the bytes; a client supplied hint that
// disagrees is ignored.
func ValidateImage(data []byte, maxSize int64) (*ValidatedImage, error) {
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "image", Reason: "image is empty", Err: domain.ErrEmptyImage}
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, &domain.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("image is %d bytes, maximum is %d", len(data), maxSize),
			Err:    domain.ErrImageTooLarge,
		}
	}

	contentType := detectContentType(data)
	if _, ok := domain.AllowedImageTypes[contentType]; !ok {
		return nil, &domain.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("%s is not an allowed image type", contentType),
			Err:    domain.ErrUnsupportedImageType,
		}
	}

	v := &ValidatedImage{ContentType: contentType}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		v.Width = cfg.Width
		v.Height = cfg.Height
	}
	return v, nil
}

func detectContentType(data []byte) string {
	// mimetype may append parameters such as charset
	ct, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return ct
}
