package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope for every API error.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code for frontend mapping
	Message string `json:"message"` // human-readable message
}

// RespondWithError writes a standard error response.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand helpers for the common cases.

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}
