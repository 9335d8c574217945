package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies a low-level error into an API error code and a
// message safe to show to users. Sensitive driver detail stays out of the
// response; the original error belongs in the logs.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}

	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record no longer exists"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unreachable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again later"}
}

func notFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "product"):
		return "Product not found"
	case strings.Contains(context, "order"):
		return "Order not found"
	default:
		return "Requested record not found"
	}
}
