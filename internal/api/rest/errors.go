package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/api/shared/errors"
	"github.com/evermarks/evermark-minter/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errors.NewValidationError(message))
}

// respondError maps err to its API error and status. Server side failures are logged.
func respondError(c *gin.Context, err error) {
	apiErr := errors.FromError(err)
	respondAPIError(c, apiErr, err)
}

func respondAPIError(c *gin.Context, apiErr *errors.APIError, cause error) {
	status := apiErr.Status()
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), cause,
			zap.String("path", c.Request.URL.Path),
			zap.String("code", string(apiErr.Code)))
	}
	c.JSON(status, apiErr)
}
