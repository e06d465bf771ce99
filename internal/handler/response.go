package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medbill/internal/domain"
	"medbill/internal/llm"
	"medbill/internal/middleware"
)

// ErrorResponse is the envelope for failed requests. Successful extractions
// are returned as domain.ExtractionResult, which carries is_success=true.
type ErrorResponse struct {
	IsSuccess bool      `json:"is_success"`
	Error     *APIError `json:"error"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{
		IsSuccess: false,
		Error:     &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rlErr *llm.RateLimitError
	switch {
	case errors.As(err, &rlErr):
		return http.StatusTooManyRequests, "LLM_RATE_LIMITED", "language model provider is rate limiting requests; retry later"
	case errors.Is(err, domain.ErrInvalidDocumentRef):
		return http.StatusBadRequest, "INVALID_DOCUMENT", "document must be an http(s) or s3 URL"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT", "document is neither a PDF nor a supported image"
	case errors.Is(err, domain.ErrDocumentLoad):
		return http.StatusUnprocessableEntity, "DOCUMENT_LOAD_FAILED", "document could not be downloaded or decoded"
	case errors.Is(err, domain.ErrOCRFailed):
		return http.StatusBadGateway, "OCR_FAILED", "text recognition failed"
	case errors.Is(err, domain.ErrLLMUnavailable):
		return http.StatusBadGateway, "LLM_UNAVAILABLE", "language model provider request failed"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Rate-limit errors also set Retry-After.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)

	var rlErr *llm.RateLimitError
	if errors.As(err, &rlErr) {
		c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
	}
	if status >= 500 {
		_ = c.Error(err)
		log.Printf("[%s] extraction failed: %v", middleware.GetRequestID(c), err)
	}
	RespondError(c, status, code, msg)
}
