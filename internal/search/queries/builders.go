package queries

import (
	"strings"

	"property-search/internal/models"
)

// Field paths in the property index.
const (
	FieldID           = "id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldStatus       = "status"
	FieldListingDate  = "listing_date"
	FieldAddress      = "location.address"
	FieldCity         = "location.city"
	FieldState        = "location.state"
	FieldNeighborhood = "location.neighborhood"
	FieldBedrooms     = "details.bedrooms"
	FieldBathrooms    = "details.bathrooms"
	FieldPropertyType = "details.property_type"
	FieldSquareFeet   = "details.square_feet"
	FieldAmenities    = "details.amenities"
)

var (
	textQueryFields     = []string{FieldTitle + "^2", FieldDescription, FieldAddress, FieldCity, FieldNeighborhood}
	locationQueryFields = []string{FieldCity, FieldState, FieldAddress, FieldNeighborhood}
)

// BuildSearchQuery compiles free text and filters into a bool query. Scored
// matching goes to must, exact and range constraints to filter, and only
// active listings are ever returned.
func BuildSearchQuery(query string, f models.SearchFilters) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q := strings.TrimSpace(query); q != "" {
		mustClauses = append(mustClauses, multiMatch(q, textQueryFields))
	}

	if f.Location != "" {
		mustClauses = append(mustClauses, multiMatch(f.Location, locationQueryFields))
	}

	if clause, ok := rangeClause(FieldPrice, f.MinPrice, f.MaxPrice); ok {
		filterClauses = append(filterClauses, clause)
	}

	// Exact bedroom count wins over the legacy bounds.
	if f.Bedrooms != nil {
		filterClauses = append(filterClauses, term(FieldBedrooms, *f.Bedrooms))
	} else if clause, ok := rangeClause(FieldBedrooms, f.MinBedrooms, f.MaxBedrooms); ok {
		filterClauses = append(filterClauses, clause)
	}

	if clause, ok := rangeClause(FieldBathrooms, f.Bathrooms, f.MaxBathrooms); ok {
		filterClauses = append(filterClauses, clause)
	}

	if f.PropertyType != "" {
		filterClauses = append(filterClauses, term(FieldPropertyType, f.PropertyType))
	}

	if clause, ok := rangeClause(FieldSquareFeet, f.MinSqft, f.MaxSqft); ok {
		filterClauses = append(filterClauses, clause)
	}

	for _, amenity := range f.Amenities {
		if amenity = strings.TrimSpace(amenity); amenity != "" {
			filterClauses = append(filterClauses, term(FieldAmenities, amenity))
		}
	}

	filterClauses = append(filterClauses, term(FieldStatus, models.StatusActive))

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, matchAll())
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must":   mustClauses,
			"filter": filterClauses,
		},
	}
}

// BuildSearchBody wraps a compiled query with paging, sorting and exact totals.
func BuildSearchBody(query map[string]interface{}, sort []map[string]interface{}, from, size int) map[string]interface{} {
	return map[string]interface{}{
		"query":            query,
		"sort":             sort,
		"from":             from,
		"size":             size,
		"track_total_hits": true,
	}
}

func multiMatch(query string, fields []string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  query,
			"fields": fields,
		},
	}
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func matchAll() map[string]interface{} {
	return map[string]interface{}{"match_all": map[string]interface{}{}}
}

// rangeClause emits only the bounds that are present.
func rangeClause[T int | float64](field string, lo, hi *T) (map[string]interface{}, bool) {
	if lo == nil && hi == nil {
		return nil, false
	}
	bounds := map[string]interface{}{}
	if lo != nil {
		bounds["gte"] = *lo
	}
	if hi != nil {
		bounds["lte"] = *hi
	}
	return map[string]interface{}{
		"range": map[string]interface{}{field: bounds},
	}, true
}
