// Package errors provides the standardized error envelope used by the search
// engine's callers to turn engine failures into API responses.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePropertyNotFound ErrorCode = "PROPERTY_NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeMalformedSearchHit            ErrorCode = "MALFORMED_SEARCH_HIT"
	ErrCodeBulkIndexFailed               ErrorCode = "BULK_INDEX_FAILED"

	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeSnapshotStoreFailed ErrorCode = "SNAPSHOT_STORE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns the error with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// NewPropertyNotFoundError creates a non-retryable not-found error.
func NewPropertyNotFoundError(propertyID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePropertyNotFound,
		Message:   "Property not found",
		Details:   fmt.Sprintf("propertyId: %s", propertyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a non-retryable rejected-query error.
func NewSearchQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedSearchHitError reports a stored document that does not map to a property.
func NewMalformedSearchHitError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedSearchHit,
		Message:   "Search returned a malformed property document",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBulkIndexFailedError creates a retryable bulk write error.
func NewBulkIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBulkIndexFailed,
		Message:   "Bulk indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache/session store error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Session store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotStoreFailedError creates a retryable snapshot persistence error.
func NewSnapshotStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotStoreFailed,
		Message:   "Market snapshot store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unclassified error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the HTTP status the API layer returns.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodePropertyNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeSearchQueryFailed, ErrCodeMalformedSearchHit, ErrCodeBulkIndexFailed, ErrCodeIndexNotFound:
		return http.StatusBadGateway
	case ErrCodeElasticsearchConnectionFailed, ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode reports whether callers may retry after this error.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeElasticsearchConnectionFailed,
		ErrCodeBulkIndexFailed,
		ErrCodeCacheUnavailable,
		ErrCodeSnapshotStoreFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "BULK"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "SNAPSHOT"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
