package models

import "time"

// MarketSnapshot is a point-in-time copy of the statistics for one location,
// recorded after writes that touch it.
type MarketSnapshot struct {
	ID              int64             `json:"id" db:"id"`
	Location        string            `json:"location" db:"location"`
	PropertyType    string            `json:"property_type,omitempty" db:"property_type"`
	TotalProperties int64             `json:"total_properties" db:"total_properties"`
	AveragePrice    float64           `json:"average_price" db:"average_price"`
	MinPrice        float64           `json:"min_price" db:"min_price"`
	MaxPrice        float64           `json:"max_price" db:"max_price"`
	Statistics      StatisticsSummary `json:"statistics" db:"statistics"`
	CapturedAt      time.Time         `json:"captured_at" db:"captured_at"`
}
