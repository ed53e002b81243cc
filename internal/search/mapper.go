package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"property-search/internal/models"
)

type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// totalHits accepts both the object form and the bare number older clusters return.
type totalHits int64

func (t *totalHits) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Value int64 `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*t = totalHits(obj.Value)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = totalHits(n)
	return nil
}

type searchResult struct {
	Hits struct {
		Total totalHits   `json:"total"`
		Hits  []searchHit `json:"hits"`
	} `json:"hits"`
}

// MapSearchResponse decodes a search response body into a page of
// properties. Any hit that does not describe a valid property fails the call.
func MapSearchResponse(body io.Reader, page, limit int) (*models.SearchResponse, error) {
	var r searchResult
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrMalformedHit, err)
	}

	properties := make([]models.Property, 0, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		p, err := decodeProperty(hit.Source)
		if err != nil {
			return nil, fmt.Errorf("hit %d (_id=%s): %w", i, hit.ID, err)
		}
		properties = append(properties, p)
	}

	total := int64(r.Hits.Total)
	return &models.SearchResponse{
		Properties: properties,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}, nil
}

// TotalPages is ceil(total/limit), and 0 for an empty result.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
