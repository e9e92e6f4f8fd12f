package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/faqfilter/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	apperrors.CodeInvalidToken:   http.StatusForbidden,
	apperrors.CodeInvalidRequest: http.StatusBadRequest,
	apperrors.CodeTokenError:     http.StatusInternalServerError,
}

// fromAppError maps a domain error onto the transport. Unknown codes are
// reported as internal errors under fallbackCode.
func fromAppError(err error, fallbackCode, message string) *HTTPError {
	code := apperrors.CodeOf(err)
	if status, ok := statusByCode[code]; ok {
		return NewHTTPError(status, code, message, err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
