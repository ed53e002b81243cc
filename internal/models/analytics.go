// internal/models/analytics.go
package models

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type RangeCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type BedroomCount struct {
	Bedrooms int   `json:"bedrooms"`
	Count    int64 `json:"count"`
}

type BathroomCount struct {
	Bathrooms float64 `json:"bathrooms"`
	Count     int64   `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TrendSummary struct {
	TotalProperties      int64          `json:"total_properties"`
	AveragePrice         float64        `json:"average_price"`
	MedianPrice          float64        `json:"median_price"`
	MinPrice             float64        `json:"min_price"`
	MaxPrice             float64        `json:"max_price"`
	AvgPricePerSqft      float64        `json:"avg_price_per_sqft"`
	PropertyTypes        []TypeCount    `json:"property_types"`
	PriceRanges          []RangeCount   `json:"price_ranges"`
	BedroomsDistribution []BedroomCount `json:"bedrooms_distribution"`
	MonthlyListings      []MonthCount   `json:"monthly_listings"`
}

// LocationTrends summarizes the market for one location.
type LocationTrends struct {
	Location     string       `json:"location"`
	PropertyType string       `json:"property_type,omitempty"`
	TimePeriod   string       `json:"time_period"`
	Summary      TrendSummary `json:"summary"`
}

// DistributionStats mirrors a stats aggregation with nulls read as zero.
type DistributionStats struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   float64 `json:"sum"`
}

type StatisticsFilters struct {
	Location     string `json:"location,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
}

type StatisticsSummary struct {
	TotalProperties       int64             `json:"total_properties"`
	PriceStatistics       DistributionStats `json:"price_statistics"`
	SquareFeetStatistics  DistributionStats `json:"square_feet_statistics"`
	PropertyTypes         []TypeCount       `json:"property_types"`
	TopCities             []CityCount       `json:"top_cities"`
	BedroomsDistribution  []BedroomCount    `json:"bedrooms_distribution"`
	BathroomsDistribution []BathroomCount   `json:"bathrooms_distribution"`
	StatusDistribution    []StatusCount     `json:"status_distribution"`
}

type PropertyStatistics struct {
	Filters    StatisticsFilters `json:"filters"`
	Statistics StatisticsSummary `json:"statistics"`
}
