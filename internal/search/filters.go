package search

import (
	"strings"

	"property-search/internal/models"
)

// NormalizeFilters merges the nested filter object with the flattened legacy
// fields into one canonical filter set. A nested value wins over its flat
// counterpart field by field.
func NormalizeFilters(req *models.SearchRequest) models.SearchFilters {
	var nested models.SearchFilters
	if req.Filters != nil {
		nested = *req.Filters
	}

	return models.SearchFilters{
		Location:     firstString(nested.Location, req.Location),
		MinPrice:     firstSet(nested.MinPrice, req.MinPrice),
		MaxPrice:     firstSet(nested.MaxPrice, req.MaxPrice),
		Bedrooms:     nested.Bedrooms,
		Bathrooms:    firstSet(nested.Bathrooms, req.MinBathrooms),
		PropertyType: firstString(nested.PropertyType, req.PropertyType),
		MinSqft:      firstSet(nested.MinSqft, req.MinSqft),
		MaxSqft:      firstSet(nested.MaxSqft, req.MaxSqft),
		Amenities:    firstList(cleanList(nested.Amenities), cleanList(req.Amenities)),
		MinBedrooms:  firstSet(nested.MinBedrooms, req.MinBedrooms),
		MaxBedrooms:  firstSet(nested.MaxBedrooms, req.MaxBedrooms),
		MaxBathrooms: firstSet(nested.MaxBathrooms, req.MaxBathrooms),
	}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstSet[T any](nested, flat *T) *T {
	if nested != nil {
		return nested
	}
	return flat
}

func firstList(nested, flat []string) []string {
	if len(nested) > 0 {
		return nested
	}
	return flat
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
