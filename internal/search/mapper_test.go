package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 2, 13},
		{100, 100, 1},
		{101, 100, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestMapSearchResponse_LegacyTotal(t *testing.T) {
	body := `{"hits":{"total":7,"hits":[{"_id":"p-1","_source":` + mustJSON(t, sampleProperty("p-1", "Austin", 1)) + `}]}}`

	resp, err := MapSearchResponse(strings.NewReader(body), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Properties, 1)
}

func TestMapSearchResponse_DefaultsStatus(t *testing.T) {
	body := `{"hits":{"total":{"value":1},"hits":[{"_id":"p-1","_source":{
		"id":"p-1","title":"Loft","price":210000,
		"location":{"address":"1 Main","city":"Austin","state":"TX","zip_code":"78701","latitude":null},
		"details":{"bedrooms":1,"bathrooms":1,"property_type":"loft","amenities":null}
	}}]}}`

	resp, err := MapSearchResponse(strings.NewReader(body), 1, 10)
	require.NoError(t, err)
	p := resp.Properties[0]
	assert.Equal(t, "active", p.Status)
	assert.Nil(t, p.Location.Latitude)
	assert.Nil(t, p.Details.SquareFeet)
}

func TestMapSearchResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"hits":`},
		{"missing details", `{"hits":{"total":{"value":1},"hits":[{"_id":"x","_source":{"id":"x","title":"t","price":1,"location":{"address":"a","city":"c","state":"s","zip_code":"z"}}}]}}`},
		{"bad status", `{"hits":{"total":{"value":1},"hits":[{"_id":"x","_source":{"id":"x","title":"t","price":1,"status":"archived","location":{"address":"a","city":"c","state":"s","zip_code":"z"},"details":{"bedrooms":1,"bathrooms":1,"property_type":"house"}}}]}}`},
		{"fractional bedrooms", `{"hits":{"total":{"value":1},"hits":[{"_id":"x","_source":{"id":"x","title":"t","price":1,"location":{"address":"a","city":"c","state":"s","zip_code":"z"},"details":{"bedrooms":1.5,"bathrooms":1,"property_type":"house"}}}]}}`},
		{"no source", `{"hits":{"total":{"value":1},"hits":[{"_id":"x"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapSearchResponse(strings.NewReader(tt.body), 1, 10)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedHit), "got %v", err)
		})
	}
}
