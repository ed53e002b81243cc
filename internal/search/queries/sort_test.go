package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   string
	}{
		{"price asc", "price", "asc", `[{"price": {"order": "asc"}}]`},
		{"price desc", "price", "desc", `[{"price": {"order": "desc"}}]`},
		{"descending spelled out", "price", "Descending", `[{"price": {"order": "desc"}}]`},
		{"date", "date", "desc", `[{"listing_date": {"order": "desc"}}]`},
		{"bedrooms", "bedrooms", "asc", `[{"details.bedrooms": {"order": "asc"}}]`},
		{"sqft", "sqft", "", `[{"details.square_feet": {"order": "asc"}}]`},
		{"unknown order is asc", "sqft", "sideways", `[{"details.square_feet": {"order": "asc"}}]`},
		{"relevance ignores asc", "relevance", "asc", `[{"_score": {"order": "desc"}}]`},
		{"relevance desc", "relevance", "desc", `[{"_score": {"order": "desc"}}]`},
		{"unknown key falls back", "popularity", "desc", `[{"price": {"order": "asc"}}]`},
		{"empty key falls back", "", "", `[{"price": {"order": "asc"}}]`},
		{"key is case insensitive", " DATE ", "desc", `[{"listing_date": {"order": "desc"}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, toJSON(t, BuildSort(tt.sortBy, tt.order)))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 250, Offset(6, 50))
	assert.Equal(t, 0, Offset(0, 10))
}
