package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/storage"
)

const PINATA_BACKEND_NAME = "pinata"

// Config holds configuration for the Pinata pinning API
type Config struct {
	JWT        string
	APIURL     string
	GatewayURL string
	// RequestsPerSecond and Burst throttle pin requests across the process
	RequestsPerSecond float64
	Burst             int
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinJSONRequest struct {
	PinataContent  json.RawMessage `json:"pinataContent"`
	PinataMetadata pinataMetadata  `json:"pinataMetadata"`
}

type pinataBackend struct {
	http    adapter.HTTPClient
	json    adapter.JSON
	config  Config
	limiter *rate.Limiter
}

// NewPinataBackend creates the content-addressed storage backend
func NewPinataBackend(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, config Config) storage.ContentAddressedBackend {
	config.APIURL = strings.TrimRight(config.APIURL, "/")
	config.GatewayURL = strings.TrimRight(config.GatewayURL, "/")

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &pinataBackend{
		http:    httpClient,
		json:    jsonAdapter,
		config:  config,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (p *pinataBackend) Name() string {
	return PINATA_BACKEND_NAME
}

func (p *pinataBackend) PutFile(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart file: %w", err)
	}

	meta, err := p.json.Marshal(pinataMetadata{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin metadata: %w", err)
	}
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("failed to write pin metadata: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return p.pin(ctx, "/pinning/pinFileToIPFS", w.FormDataContentType(), body.Bytes(), name)
}

func (p *pinataBackend) PutJSON(ctx context.Context, name string, body []byte) (string, error) {
	payload, err := p.json.Marshal(pinJSONRequest{
		PinataContent:  json.RawMessage(body),
		PinataMetadata: pinataMetadata{Name: name},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	return p.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", payload, name)
}

func (p *pinataBackend) pin(ctx context.Context, endpoint, contentType string, body []byte, name string) (string, error) {
	if p.config.JWT == "" {
		return "", errors.New("pinata jwt is not configured")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	respBody, err := p.http.Post(ctx, p.config.APIURL+endpoint, map[string]string{
		"Authorization": "Bearer " + p.config.JWT,
	}, contentType, body)
	if err != nil {
		return "", fmt.Errorf("failed to pin %s: %w", name, err)
	}

	var resp pinResponse
	if err := p.json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if resp.IpfsHash == "" {
		return "", fmt.Errorf("pin response for %s has no hash", name)
	}

	logger.DebugCtx(ctx, "Pinned to IPFS",
		zap.String("name", name),
		zap.String("cid", resp.IpfsHash),
		zap.Int64("size", resp.PinSize))

	return resp.IpfsHash, nil
}

func (p *pinataBackend) GatewayURL(cid string) string {
	return p.config.GatewayURL + "/ipfs/" + cid
}
