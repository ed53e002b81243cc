package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrorHandler turns errors into JSON API responses with a consistent envelope.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorBody is the "error" member of a failed API response.
type ErrorBody struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Category  string                 `json:"category"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond normalizes err, logs it and writes the JSON error envelope.
func (h *ErrorHandler) Respond(w http.ResponseWriter, operation string, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(operation, status, stdErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:      stdErr.Code,
			Message:   stdErr.Message,
			Details:   stdErr.Details,
			Retryable: stdErr.Retryable,
			Category:  GetErrorCategory(stdErr.Code),
			Metadata:  stdErr.Metadata,
		},
	})
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(operation string, status int, stdErr *StandardError) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Request failed", map[string]interface{}{
		"operation":     operation,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
