package queries

import "strings"

// Price brackets for trend reports. Boundaries are fixed.
var priceRanges = []map[string]interface{}{
	{"key": "Under $200K", "to": 200000},
	{"key": "$200K-$400K", "from": 200000, "to": 400000},
	{"key": "$400K-$600K", "from": 400000, "to": 600000},
	{"key": "$600K-$800K", "from": 600000, "to": 800000},
	{"key": "Over $800K", "from": 800000},
}

// PricePerSqftScript yields 0 for listings without a positive square footage.
const PricePerSqftScript = "if (doc['details.square_feet'].size() > 0 && doc['details.square_feet'].value > 0) { return doc['price'].value / doc['details.square_feet'].value } else { return 0 }"

// StatisticsBucketSize caps every grouped count in the statistics report.
const StatisticsBucketSize = 20

var periodStarts = map[string]string{
	"1month":  "now-1M",
	"3months": "now-3M",
	"6months": "now-6M",
	"1year":   "now-1y",
	"2years":  "now-2y",
	"5years":  "now-5y",
}

var analyticsLocationFields = []string{FieldCity, FieldState, FieldNeighborhood}

// PeriodStart returns the date-math lower bound for a time period label.
func PeriodStart(timePeriod string) (string, bool) {
	start, ok := periodStarts[strings.ToLower(strings.TrimSpace(timePeriod))]
	return start, ok
}

// BuildLocationTrendsQuery computes every trend metric for a location in one
// size-0 request. timePeriod only narrows the window when boundByPeriod is set.
func BuildLocationTrendsQuery(location, propertyType, timePeriod string, boundByPeriod bool) map[string]interface{} {
	must := []interface{}{
		multiMatch(location, analyticsLocationFields),
	}
	if propertyType != "" {
		must = append(must, term(FieldPropertyType, propertyType))
	}

	boolQuery := map[string]interface{}{"must": must}
	if boundByPeriod {
		if start, ok := PeriodStart(timePeriod); ok {
			boolQuery["filter"] = []interface{}{
				map[string]interface{}{
					"range": map[string]interface{}{
						FieldListingDate: map[string]interface{}{"gte": start},
					},
				},
			}
		}
	}

	return map[string]interface{}{
		"size":  0,
		"query": map[string]interface{}{"bool": boolQuery},
		"aggs": map[string]interface{}{
			"avg_price":        metric("avg", FieldPrice),
			"median_price":     map[string]interface{}{"percentiles": map[string]interface{}{"field": FieldPrice, "percents": []float64{50}}},
			"min_price":        metric("min", FieldPrice),
			"max_price":        metric("max", FieldPrice),
			"total_properties": metric("value_count", FieldID),
			"price_per_sqft": map[string]interface{}{
				"avg": map[string]interface{}{
					"script": map[string]interface{}{"source": PricePerSqftScript},
				},
			},
			"property_types":        terms(FieldPropertyType, 0),
			"price_ranges":          map[string]interface{}{"range": map[string]interface{}{"field": FieldPrice, "ranges": priceRanges}},
			"bedrooms_distribution": terms(FieldBedrooms, 0),
			"listing_dates": map[string]interface{}{
				"date_histogram": map[string]interface{}{
					"field":             FieldListingDate,
					"calendar_interval": "month",
				},
			},
		},
	}
}

// BuildPropertyStatisticsQuery computes inventory-wide statistics, optionally
// narrowed by location and property type.
func BuildPropertyStatisticsQuery(location, propertyType string) map[string]interface{} {
	must := []interface{}{}
	if location != "" {
		must = append(must, multiMatch(location, analyticsLocationFields))
	}
	if propertyType != "" {
		must = append(must, term(FieldPropertyType, propertyType))
	}

	query := matchAll()
	if len(must) > 0 {
		query = map[string]interface{}{"bool": map[string]interface{}{"must": must}}
	}

	return map[string]interface{}{
		"size":  0,
		"query": query,
		"aggs": map[string]interface{}{
			"total_properties":    metric("value_count", FieldID),
			"price_stats":         metric("stats", FieldPrice),
			"sqft_stats":          metric("stats", FieldSquareFeet),
			"property_types":      terms(FieldPropertyType, StatisticsBucketSize),
			"cities":              terms(FieldCity, StatisticsBucketSize),
			"bedrooms":            terms(FieldBedrooms, StatisticsBucketSize),
			"bathrooms":           terms(FieldBathrooms, StatisticsBucketSize),
			"status_distribution": terms(FieldStatus, StatisticsBucketSize),
		},
	}
}

// BuildLocationSuggestionsQuery fetches the top city and neighborhood names
// around a partial query. No documents are returned.
func BuildLocationSuggestionsQuery(query string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"match": map[string]interface{}{FieldCity: map[string]interface{}{"query": query, "boost": 2}}},
					map[string]interface{}{"match": map[string]interface{}{FieldNeighborhood: query}},
					map[string]interface{}{"match": map[string]interface{}{FieldState: query}},
				},
			},
		},
		"aggs": map[string]interface{}{
			"unique_cities":        terms(FieldCity, limit),
			"unique_neighborhoods": terms(FieldNeighborhood, limit),
		},
	}
}

func metric(kind, field string) map[string]interface{} {
	return map[string]interface{}{kind: map[string]interface{}{"field": field}}
}

// terms builds a terms aggregation; size 0 keeps the backend default.
func terms(field string, size int) map[string]interface{} {
	body := map[string]interface{}{"field": field}
	if size > 0 {
		body["size"] = size
	}
	return map[string]interface{}{"terms": body}
}
