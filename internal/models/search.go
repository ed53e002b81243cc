// internal/models/search.go
package models

import (
	"fmt"

	apperrors "property-search/internal/common/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SearchFilters is the canonical filter set. Nil bounds are open-ended.
type SearchFilters struct {
	Location     string   `json:"location,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	MinSqft      *int     `json:"min_sqft,omitempty"`
	MaxSqft      *int     `json:"max_sqft,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`

	// Only reachable through the flattened request fields.
	MinBedrooms  *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms  *int     `json:"max_bedrooms,omitempty"`
	MaxBathrooms *float64 `json:"max_bathrooms,omitempty"`
}

type SearchRequest struct {
	Query     string         `json:"query,omitempty"`
	Filters   *SearchFilters `json:"filters,omitempty"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
	SortBy    string         `json:"sort_by,omitempty"`
	SortOrder string         `json:"sort_order,omitempty"`

	// Flattened filter fields accepted for older clients.
	Location     string   `json:"location,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinBedrooms  *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms  *int     `json:"max_bedrooms,omitempty"`
	MinBathrooms *float64 `json:"min_bathrooms,omitempty"`
	MaxBathrooms *float64 `json:"max_bathrooms,omitempty"`
	MinSqft      *int     `json:"min_sqft,omitempty"`
	MaxSqft      *int     `json:"max_sqft,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
}

// DefaultSearchRequest is the zero request callers decode into.
func DefaultSearchRequest() SearchRequest {
	return SearchRequest{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    "price",
		SortOrder: "asc",
	}
}

// Validate rejects impossible paging and clamps oversized pages.
func (r *SearchRequest) Validate() error {
	if r.Page < 1 {
		return apperrors.NewValidationError(fmt.Sprintf("page must be >= 1, got %d", r.Page))
	}
	if r.Limit < 1 {
		return apperrors.NewValidationError(fmt.Sprintf("limit must be >= 1, got %d", r.Limit))
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return nil
}

type SearchResponse struct {
	Properties []Property `json:"properties"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
