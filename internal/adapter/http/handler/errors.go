package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/usecase"
)

// Error codes
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       CodeValidationError,
			Message:    "invalid request",
		}
	case errors.Is(err, usecase.ErrInferenceFailed):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "inference failed",
		}
	case errors.Is(err, usecase.ErrNoPrediction):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "model returned no prediction",
		}
	case errors.Is(err, usecase.ErrInvalidPrediction):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "model returned an invalid prediction",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleBindingError responds to a request body that failed to bind or validate.
func HandleBindingError(c *gin.Context, err error) {
	respondValidationError(c, http.StatusUnprocessableEntity, ValidationDetails(err))
}
