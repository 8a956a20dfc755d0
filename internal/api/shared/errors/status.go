package errors

import (
	"errors"
	"net/http"

	"github.com/evermarks/evermark-minter/internal/chain"
	"github.com/evermarks/evermark-minter/internal/domain"
)

var codeStatus = map[ErrorCode]int{
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeDuplicateContent:   http.StatusConflict,
	ErrCodeInsufficientFunds:  http.StatusPaymentRequired,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeServiceError:       http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// Status returns the HTTP status for an error code
func (e *APIError) Status() int {
	if status, ok := codeStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts a pipeline error into an API error.
// Errors that are already *APIError are returned unchanged.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if chainErr, ok := chain.AsError(err); ok {
		return fromChainError(chainErr)
	}

	var validationErr *domain.ValidationError
	var dupErr *domain.DuplicateError
	var storageErr *domain.StorageError
	switch {
	case errors.As(err, &validationErr):
		return NewValidationError(validationErr.Error())
	case errors.As(err, &dupErr):
		apiErr := NewDuplicateContentError(dupErr.Error())
		if dupErr.Verdict.MatchedRecordID != nil {
			apiErr.Details = *dupErr.Verdict.MatchedRecordID
		}
		return apiErr
	case errors.Is(err, domain.ErrUnsupportedContentType),
		errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrUnsupportedImageType),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrEmptyImage):
		return NewValidationError(err.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		return NewNotFoundError("Evermark not found")
	case errors.As(err, &storageErr):
		return NewServiceError("Failed to store the Evermark assets")
	}
	return NewInternalError("Internal server error")
}

func fromChainError(chainErr *chain.Error) *APIError {
	var apiErr *APIError
	switch chainErr.Kind {
	case chain.ErrorKindInsufficientFunds:
		apiErr = NewInsufficientFundsError(chainErr.UserMessage())
	case chain.ErrorKindContractPaused, chain.ErrorKindNetworkError, chain.ErrorKindNonceError:
		apiErr = NewServiceUnavailableError(chainErr.UserMessage())
	case chain.ErrorKindInvalidParams:
		apiErr = newError(ErrCodeValidationFailed, chainErr.UserMessage(), nil)
	default:
		apiErr = NewServiceError(chainErr.UserMessage())
	}
	apiErr.Kind = string(chainErr.Kind)
	apiErr.TxHash = chainErr.TxHash
	return apiErr
}
