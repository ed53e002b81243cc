package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"property-search/internal/models"
)

type valueAgg struct {
	Value *float64 `json:"value"`
}

type percentilesAgg struct {
	Values map[string]*float64 `json:"values"`
}

type statsAgg struct {
	Count int64    `json:"count"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Sum   *float64 `json:"sum"`
}

type bucket struct {
	Key         interface{} `json:"key"`
	KeyAsString string      `json:"key_as_string"`
	DocCount    int64       `json:"doc_count"`
}

type bucketsAgg struct {
	Buckets []bucket `json:"buckets"`
}

type trendsAggregations struct {
	AvgPrice             valueAgg       `json:"avg_price"`
	MedianPrice          percentilesAgg `json:"median_price"`
	MinPrice             valueAgg       `json:"min_price"`
	MaxPrice             valueAgg       `json:"max_price"`
	TotalProperties      valueAgg       `json:"total_properties"`
	PricePerSqft         valueAgg       `json:"price_per_sqft"`
	PropertyTypes        bucketsAgg     `json:"property_types"`
	PriceRanges          bucketsAgg     `json:"price_ranges"`
	BedroomsDistribution bucketsAgg     `json:"bedrooms_distribution"`
	ListingDates         bucketsAgg     `json:"listing_dates"`
}

type statisticsAggregations struct {
	TotalProperties    valueAgg   `json:"total_properties"`
	PriceStats         statsAgg   `json:"price_stats"`
	SqftStats          statsAgg   `json:"sqft_stats"`
	PropertyTypes      bucketsAgg `json:"property_types"`
	Cities             bucketsAgg `json:"cities"`
	Bedrooms           bucketsAgg `json:"bedrooms"`
	Bathrooms          bucketsAgg `json:"bathrooms"`
	StatusDistribution bucketsAgg `json:"status_distribution"`
}

var errNoAggregations = errors.New("response has no aggregations")

func decodeAggregations(body io.Reader, into interface{}) error {
	var r struct {
		Aggregations json.RawMessage `json:"aggregations"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return fmt.Errorf("decode aggregation response: %w", err)
	}
	if len(r.Aggregations) == 0 || string(r.Aggregations) == "null" {
		return errNoAggregations
	}
	if err := json.Unmarshal(r.Aggregations, into); err != nil {
		return fmt.Errorf("decode aggregations: %w", err)
	}
	return nil
}

// InterpretLocationTrends reads a trends aggregation response. Missing or
// null metrics read as zero.
func InterpretLocationTrends(body io.Reader, location, propertyType, timePeriod string) (*models.LocationTrends, error) {
	var aggs trendsAggregations
	if err := decodeAggregations(body, &aggs); err != nil {
		return nil, err
	}

	out := EmptyLocationTrends(location, propertyType, timePeriod)
	s := &out.Summary
	s.TotalProperties = int64(orZero(aggs.TotalProperties.Value))
	s.AveragePrice = orZero(aggs.AvgPrice.Value)
	s.MedianPrice = firstPercentile(aggs.MedianPrice)
	s.MinPrice = orZero(aggs.MinPrice.Value)
	s.MaxPrice = orZero(aggs.MaxPrice.Value)
	s.AvgPricePerSqft = orZero(aggs.PricePerSqft.Value)

	for _, b := range aggs.PropertyTypes.Buckets {
		s.PropertyTypes = append(s.PropertyTypes, models.TypeCount{Type: keyString(b), Count: b.DocCount})
	}
	for _, b := range aggs.PriceRanges.Buckets {
		s.PriceRanges = append(s.PriceRanges, models.RangeCount{Range: keyString(b), Count: b.DocCount})
	}
	for _, b := range aggs.BedroomsDistribution.Buckets {
		s.BedroomsDistribution = append(s.BedroomsDistribution, models.BedroomCount{Bedrooms: int(keyFloat(b)), Count: b.DocCount})
	}
	for _, b := range aggs.ListingDates.Buckets {
		s.MonthlyListings = append(s.MonthlyListings, models.MonthCount{Month: b.KeyAsString, Count: b.DocCount})
	}

	return out, nil
}

// InterpretPropertyStatistics reads a statistics aggregation response.
func InterpretPropertyStatistics(body io.Reader, location, propertyType string) (*models.PropertyStatistics, error) {
	var aggs statisticsAggregations
	if err := decodeAggregations(body, &aggs); err != nil {
		return nil, err
	}

	out := EmptyPropertyStatistics(location, propertyType)
	s := &out.Statistics
	s.TotalProperties = int64(orZero(aggs.TotalProperties.Value))
	s.PriceStatistics = distribution(aggs.PriceStats)
	s.SquareFeetStatistics = distribution(aggs.SqftStats)

	for _, b := range aggs.PropertyTypes.Buckets {
		s.PropertyTypes = append(s.PropertyTypes, models.TypeCount{Type: keyString(b), Count: b.DocCount})
	}
	for _, b := range aggs.Cities.Buckets {
		s.TopCities = append(s.TopCities, models.CityCount{City: keyString(b), Count: b.DocCount})
	}
	for _, b := range aggs.Bedrooms.Buckets {
		s.BedroomsDistribution = append(s.BedroomsDistribution, models.BedroomCount{Bedrooms: int(keyFloat(b)), Count: b.DocCount})
	}
	for _, b := range aggs.Bathrooms.Buckets {
		s.BathroomsDistribution = append(s.BathroomsDistribution, models.BathroomCount{Bathrooms: keyFloat(b), Count: b.DocCount})
	}
	for _, b := range aggs.StatusDistribution.Buckets {
		s.StatusDistribution = append(s.StatusDistribution, models.StatusCount{Status: keyString(b), Count: b.DocCount})
	}

	return out, nil
}

// EmptyLocationTrends is the zero-valued report returned when analytics degrade.
func EmptyLocationTrends(location, propertyType, timePeriod string) *models.LocationTrends {
	return &models.LocationTrends{
		Location:     location,
		PropertyType: propertyType,
		TimePeriod:   timePeriod,
		Summary: models.TrendSummary{
			PropertyTypes:        []models.TypeCount{},
			PriceRanges:          []models.RangeCount{},
			BedroomsDistribution: []models.BedroomCount{},
			MonthlyListings:      []models.MonthCount{},
		},
	}
}

// EmptyPropertyStatistics is the zero-valued report returned when analytics degrade.
func EmptyPropertyStatistics(location, propertyType string) *models.PropertyStatistics {
	return &models.PropertyStatistics{
		Filters: models.StatisticsFilters{Location: location, PropertyType: propertyType},
		Statistics: models.StatisticsSummary{
			PropertyTypes:         []models.TypeCount{},
			TopCities:             []models.CityCount{},
			BedroomsDistribution:  []models.BedroomCount{},
			BathroomsDistribution: []models.BathroomCount{},
			StatusDistribution:    []models.StatusCount{},
		},
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// firstPercentile returns the only requested percentile, or 0.
func firstPercentile(p percentilesAgg) float64 {
	if v, ok := p.Values["50.0"]; ok {
		return orZero(v)
	}
	for _, v := range p.Values {
		return orZero(v)
	}
	return 0
}

func distribution(s statsAgg) models.DistributionStats {
	return models.DistributionStats{
		Count: s.Count,
		Min:   orZero(s.Min),
		Max:   orZero(s.Max),
		Avg:   orZero(s.Avg),
		Sum:   orZero(s.Sum),
	}
}

func keyString(b bucket) string {
	switch k := b.Key.(type) {
	case string:
		return k
	case float64:
		if b.KeyAsString != "" {
			return b.KeyAsString
		}
		return strconv.FormatFloat(k, 'f', -1, 64)
	case nil:
		return b.KeyAsString
	default:
		return fmt.Sprint(k)
	}
}

func keyFloat(b bucket) float64 {
	switch k := b.Key.(type) {
	case float64:
		return k
	case string:
		f, _ := strconv.ParseFloat(k, 64)
		return f
	default:
		return 0
	}
}
