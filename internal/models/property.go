// internal/models/property.go
package models

import "time"

// Listing statuses.
const (
	StatusActive  = "active"
	StatusSold    = "sold"
	StatusPending = "pending"
)

type Location struct {
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zip_code"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
}

type Details struct {
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	SquareFeet   *int     `json:"square_feet,omitempty"`
	LotSize      *float64 `json:"lot_size,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`
	PropertyType string   `json:"property_type"`
	Parking      string   `json:"parking,omitempty"`
	Amenities    []string `json:"amenities"`
}

// Property is a single listing as stored in the search index.
type Property struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Price        float64    `json:"price"`
	Location     Location   `json:"location"`
	Details      Details    `json:"details"`
	Images       []string   `json:"images"`
	ListingDate  *time.Time `json:"listing_date,omitempty"`
	Status       string     `json:"status"`
	AgentContact string     `json:"agent_contact,omitempty"`
}

// WithDefaults fills the fields the index expects to be present.
func (p Property) WithDefaults() Property {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Details.Amenities == nil {
		p.Details.Amenities = []string{}
	}
	return p
}

// BulkItemResult reports the outcome of one document in a bulk add.
type BulkItemResult struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type BulkResult struct {
	Indexed int              `json:"indexed"`
	Failed  int              `json:"failed"`
	Items   []BulkItemResult `json:"items"`
}

// HasFailures reports whether any item was not indexed.
func (r *BulkResult) HasFailures() bool {
	return r != nil && r.Failed > 0
}
