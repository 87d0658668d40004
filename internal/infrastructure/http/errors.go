package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
)

// APIError is the JSON error body. Detail is a client-safe summary; the
// underlying cause is logged and never sent.
type APIError struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
	cause  error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(detail string, cause error) *APIError {
	return &APIError{
		Status: http.StatusBadRequest,
		Code:   "BAD_REQUEST",
		Detail: detail,
		cause:  cause,
	}
}

// NewInternalError creates a 500 error.
func NewInternalError(detail string, cause error) *APIError {
	return &APIError{
		Status: http.StatusInternalServerError,
		Code:   "INTERNAL_ERROR",
		Detail: detail,
		cause:  cause,
	}
}

// fromDomainError maps service errors to responses. Input errors are the
// client's; everything else is reported as a generic 500 with fallback as
// the detail.
func fromDomainError(err error, fallback string) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidInput:
		var domainErr *apperr.Error
		errors.As(err, &domainErr)
		return NewBadRequestError(domainErr.Message, err)
	case apperr.CodeUpstream:
		e := NewInternalError(fallback, err)
		e.Code = string(apperr.CodeUpstream)
		return e
	case apperr.CodeLoad:
		e := NewInternalError(fallback, err)
		e.Code = string(apperr.CodeLoad)
		return e
	}
	return NewInternalError(fallback, err)
}

// errorHandler renders every error returned by a handler or middleware.
// Server-side details go to the log only.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status: httpErr.Code,
			Code:   "HTTP_ERROR",
			Detail: fmt.Sprintf("%v", httpErr.Message),
			cause:  httpErr.Internal,
		}
	default:
		apiErr = NewInternalError("An unexpected error occurred.", err)
	}

	event := s.logger.Warn()
	if apiErr.Status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Int("status", apiErr.Status).
		Str("code", apiErr.Code).
		Err(err).
		Msg("Request failed")

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(apiErr.Status)
	} else {
		writeErr = c.JSON(apiErr.Status, apiErr)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
