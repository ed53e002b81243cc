package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"property-search/internal/models"
)

func TestNormalizeFilters_FlatOnly(t *testing.T) {
	req := models.SearchRequest{
		Location:     "  Austin ",
		PropertyType: "condo",
		MinPrice:     floatPtr(100000),
		MaxPrice:     floatPtr(400000),
		MinBedrooms:  intPtr(2),
		MaxBedrooms:  intPtr(4),
		MinBathrooms: floatPtr(1.5),
		MaxBathrooms: floatPtr(3),
		MinSqft:      intPtr(800),
		Amenities:    []string{"pool", ""},
	}

	f := NormalizeFilters(&req)

	assert.Equal(t, "Austin", f.Location)
	assert.Equal(t, "condo", f.PropertyType)
	assert.Equal(t, 100000.0, *f.MinPrice)
	assert.Equal(t, 400000.0, *f.MaxPrice)
	assert.Nil(t, f.Bedrooms)
	assert.Equal(t, 2, *f.MinBedrooms)
	assert.Equal(t, 4, *f.MaxBedrooms)
	assert.Equal(t, 1.5, *f.Bathrooms)
	assert.Equal(t, 3.0, *f.MaxBathrooms)
	assert.Equal(t, 800, *f.MinSqft)
	assert.Nil(t, f.MaxSqft)
	assert.Equal(t, []string{"pool"}, f.Amenities)
}

func TestNormalizeFilters_NestedWins(t *testing.T) {
	req := models.SearchRequest{
		Filters: &models.SearchFilters{
			Location:  "Denver",
			MinPrice:  floatPtr(0),
			Bedrooms:  intPtr(3),
			Amenities: []string{"garage"},
		},
		Location:     "Austin",
		PropertyType: "house",
		MinPrice:     floatPtr(250000),
		MaxPrice:     floatPtr(900000),
		Amenities:    []string{"pool"},
	}

	f := NormalizeFilters(&req)

	assert.Equal(t, "Denver", f.Location)
	assert.Equal(t, 0.0, *f.MinPrice, "a nested zero is still a value")
	assert.Equal(t, 900000.0, *f.MaxPrice, "flat fills what nested leaves unset")
	assert.Equal(t, "house", f.PropertyType)
	assert.Equal(t, 3, *f.Bedrooms)
	assert.Equal(t, []string{"garage"}, f.Amenities)
}

func TestNormalizeFilters_Empty(t *testing.T) {
	f := NormalizeFilters(&models.SearchRequest{Filters: &models.SearchFilters{Location: "   "}})
	assert.Equal(t, models.SearchFilters{}, f)
}
