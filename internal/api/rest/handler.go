package rest

import (
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/api/shared/dto"
	apierrors "github.com/evermarks/evermark-minter/internal/api/shared/errors"
	"github.com/evermarks/evermark-minter/internal/api/shared/executor"
	"github.com/evermarks/evermark-minter/internal/creation"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
)

const (
	// imageFormField is the multipart part holding the image bytes
	imageFormField = "image"

	// progressBuffer holds more reports than a single creation emits
	progressBuffer = 32
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreateEvermark runs the creation pipeline for a multipart request.
	// Progress is streamed as server-sent events when the client accepts text/event-stream.
	// POST /api/v1/evermarks
	CreateEvermark(c *gin.Context)

	// CheckDuplicate reports whether an Evermark already exists for a content reference
	// POST /api/v1/evermarks/duplicates/check
	CheckDuplicate(c *gin.Context)

	// GetEvermark retrieves an Evermark by token id
	// GET /api/v1/evermarks/:token_id
	GetEvermark(c *gin.Context)

	// GetCurrentSeason returns the current season
	// GET /api/v1/seasons/current
	GetCurrentSeason(c *gin.Context)

	// GetChainStatus returns the minting fee, paused flag and total supply
	// GET /api/v1/chain/status
	GetChainStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor       executor.Executor
	maxUploadBytes int64
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor, maxUploadBytes int64) Handler {
	return &handler{
		executor:       exec,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *handler) CreateEvermark(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var form dto.CreateEvermarkRequest
	if err := c.ShouldBind(&form); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	image, contentType, err := readImage(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	req, err := form.ToCreationRequest(image, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	if acceptsEventStream(c) {
		h.streamCreation(c, req)
		return
	}

	result, err := h.executor.CreateEvermark(c.Request.Context(), req, nil)
	status, body := creationResponse(c, result, err)
	c.JSON(status, body)
}

type creationOutcome struct {
	result *creation.Result
	err    error
}

// streamCreation runs the creation in the background and relays progress
// as "progress" events, then a final "result" or "error" event
func (h *handler) streamCreation(c *gin.Context, req creation.Request) {
	progressCh := make(chan creation.Progress, progressBuffer)
	doneCh := make(chan creationOutcome, 1)

	ctx := c.Request.Context()
	go func() {
		result, err := h.executor.CreateEvermark(ctx, req, func(p creation.Progress) {
			select {
			case progressCh <- p:
			default:
				logger.WarnCtx(ctx, "Dropped progress report", zap.String("step", string(p.Step)))
			}
		})
		doneCh <- creationOutcome{result: result, err: err}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case p := <-progressCh:
			c.SSEvent("progress", p)
			return true
		case out := <-doneCh:
			// Reports are sent before Create returns
		drain:
			for {
				select {
				case p := <-progressCh:
					c.SSEvent("progress", p)
				default:
					break drain
				}
			}

			status, body := creationResponse(c, out.result, out.err)
			event := "result"
			if status >= http.StatusBadRequest {
				event = "error"
			}
			c.SSEvent(event, body)
			return false
		}
	})
}

// creationResponse maps a creation outcome to its status and body.
// Partial successes are accepted rather than failed.
func creationResponse(c *gin.Context, result *creation.Result, err error) (int, any) {
	if err != nil {
		apiErr := apierrors.FromError(err)
		if result != nil {
			if result.Message != "" {
				apiErr.Message = result.Message
			}
			if result.ErrorKind != "" {
				apiErr.Kind = result.ErrorKind
			}
			if apiErr.Details == "" {
				apiErr.Details = string(result.FailedStep)
			}
		}
		if apiErr.Status() >= http.StatusInternalServerError {
			logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		}
		return apiErr.Status(), apiErr
	}

	if result.PartialSuccess {
		return http.StatusAccepted, result
	}
	return http.StatusCreated, result
}

func readImage(c *gin.Context) ([]byte, string, error) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		return nil, "", fmt.Errorf("%s file is required", imageFormField)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", imageFormField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", imageFormField, err)
	}
	return data, header.Header.Get("Content-Type"), nil
}

func acceptsEventStream(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func (h *handler) CheckDuplicate(c *gin.Context) {
	var req dto.DuplicateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	ref, err := req.ToContentReference()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.executor.CheckDuplicate(c.Request.Context(), ref, strings.TrimSpace(req.Title)))
}

func (h *handler) GetEvermark(c *gin.Context) {
	tokenID := c.Param("token_id")
	if tokenID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok || id.Sign() < 0 {
		respondBadRequest(c, "Invalid token ID")
		return
	}

	evermark, err := h.executor.GetEvermark(c.Request.Context(), id.String())
	if err != nil {
		respondError(c, err)
		return
	}

	if evermark == nil {
		respondNotFound(c, domain.ErrRecordNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, evermark)
}

func (h *handler) GetCurrentSeason(c *gin.Context) {
	season, err := h.executor.GetCurrentSeason(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

func (h *handler) GetChainStatus(c *gin.Context) {
	status, err := h.executor.GetChainStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handler) HealthCheck(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "ok",
		Service:  "evermark-api",
		Database: "ok",
	}

	if err := h.executor.CheckHealth(c.Request.Context()); err != nil {
		logger.WarnCtx(c.Request.Context(), "Health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
