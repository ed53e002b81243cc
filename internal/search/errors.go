package search

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "property-search/internal/common/errors"
)

var (
	ErrPropertyNotFound   = errors.New("PROPERTY_NOT_FOUND")
	ErrValidation         = errors.New("VALIDATION_FAILED")
	ErrBackendUnavailable = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrQueryRejected      = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexNotFound      = errors.New("INDEX_NOT_FOUND")
	ErrMalformedHit       = errors.New("MALFORMED_SEARCH_HIT")
)

// backendError classifies a non-2xx response. The body is not consumed
// beyond what res.String reads.
func backendError(operation string, res *esapi.Response) error {
	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s: %s", ErrIndexNotFound, operation, res.String())
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, operation, res.String())
	default:
		return fmt.Errorf("%w: %s: %s", ErrQueryRejected, operation, res.String())
	}
}

func transportError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, operation, err)
}

// ToStandardError converts an engine error into the API error envelope.
func ToStandardError(err error) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return apperrors.NewPropertyNotFoundError(propertyIDFrom(err))
	case errors.Is(err, ErrValidation):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(err.Error())
	case errors.Is(err, ErrMalformedHit):
		return apperrors.NewMalformedSearchHitError(err)
	case errors.Is(err, ErrQueryRejected):
		return apperrors.NewSearchQueryFailedError("search", err)
	case errors.Is(err, ErrBackendUnavailable):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}

type notFoundError struct {
	id string
}

func (e *notFoundError) Error() string { return fmt.Sprintf("%s: %s", ErrPropertyNotFound, e.id) }
func (e *notFoundError) Unwrap() error { return ErrPropertyNotFound }

func propertyIDFrom(err error) string {
	var nf *notFoundError
	if errors.As(err, &nf) {
		return nf.id
	}
	return ""
}
