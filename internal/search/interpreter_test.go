package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/internal/models"
)

func TestInterpretLocationTrends_NullMetrics(t *testing.T) {
	body := `{"aggregations":{
		"avg_price":{"value":null},
		"median_price":{"values":{"50.0":null}},
		"min_price":{"value":null},
		"max_price":{"value":null},
		"total_properties":{"value":0},
		"price_per_sqft":{"value":null},
		"property_types":{"buckets":[]},
		"price_ranges":{"buckets":[]},
		"bedrooms_distribution":{"buckets":[]},
		"listing_dates":{"buckets":[]}
	}}`

	trends, err := InterpretLocationTrends(strings.NewReader(body), "Nowhere", "", "1year")
	require.NoError(t, err)

	assert.Equal(t, EmptyLocationTrends("Nowhere", "", "1year"), trends)
	assert.NotNil(t, trends.Summary.MonthlyListings)
}

func TestInterpretLocationTrends_NoAggregations(t *testing.T) {
	_, err := InterpretLocationTrends(strings.NewReader(`{"hits":{"total":{"value":0},"hits":[]}}`), "Austin", "", "1year")
	assert.True(t, errors.Is(err, errNoAggregations))

	_, err = InterpretLocationTrends(strings.NewReader(`not json`), "Austin", "", "1year")
	assert.Error(t, err)
}

func TestInterpretPropertyStatistics(t *testing.T) {
	body := `{"aggregations":{
		"total_properties":{"value":3},
		"price_stats":{"count":3,"min":100000,"max":500000,"avg":300000,"sum":900000},
		"sqft_stats":{"count":0,"min":null,"max":null,"avg":null,"sum":0},
		"property_types":{"buckets":[{"key":"house","doc_count":2},{"key":"condo","doc_count":1}]},
		"cities":{"buckets":[{"key":"Austin","doc_count":3}]},
		"bedrooms":{"buckets":[{"key":2,"doc_count":1},{"key":4,"doc_count":2}]},
		"bathrooms":{"buckets":[{"key":1.5,"doc_count":1},{"key":2,"doc_count":2}]},
		"status_distribution":{"buckets":[{"key":"active","doc_count":2},{"key":"sold","doc_count":1}]}
	}}`

	stats, err := InterpretPropertyStatistics(strings.NewReader(body), "Austin", "")
	require.NoError(t, err)

	assert.Equal(t, models.StatisticsFilters{Location: "Austin"}, stats.Filters)
	s := stats.Statistics
	assert.Equal(t, int64(3), s.TotalProperties)
	assert.Equal(t, models.DistributionStats{Count: 3, Min: 100000, Max: 500000, Avg: 300000, Sum: 900000}, s.PriceStatistics)
	assert.Equal(t, models.DistributionStats{}, s.SquareFeetStatistics)
	assert.Equal(t, []models.CityCount{{City: "Austin", Count: 3}}, s.TopCities)
	assert.Equal(t, []models.BedroomCount{{Bedrooms: 2, Count: 1}, {Bedrooms: 4, Count: 2}}, s.BedroomsDistribution)
	assert.Equal(t, []models.BathroomCount{{Bathrooms: 1.5, Count: 1}, {Bathrooms: 2, Count: 2}}, s.BathroomsDistribution)
	assert.Equal(t, []models.StatusCount{{Status: "active", Count: 2}, {Status: "sold", Count: 1}}, s.StatusDistribution)
}

func TestBucketKeys(t *testing.T) {
	assert.Equal(t, "house", keyString(bucket{Key: "house"}))
	assert.Equal(t, "2024-01", keyString(bucket{Key: 1704067200000.0, KeyAsString: "2024-01"}))
	assert.Equal(t, "3", keyString(bucket{Key: 3.0}))
	assert.Equal(t, 2.5, keyFloat(bucket{Key: "2.5"}))
	assert.Equal(t, 0.0, keyFloat(bucket{Key: nil}))
}
