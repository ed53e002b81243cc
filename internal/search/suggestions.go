package search

import (
	"io"
	"strings"
)

// FilterSuggestions keeps the city and neighborhood names that contain query
// (case-insensitive), drops duplicates and truncates to limit. Callers must
// not depend on the order of the result.
func FilterSuggestions(query string, cities, neighborhoods []string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	out := []string{}

	for _, group := range [][]string{cities, neighborhoods} {
		for _, name := range group {
			if name == "" || !strings.Contains(strings.ToLower(name), q) {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type suggestionAggregations struct {
	UniqueCities        bucketsAgg `json:"unique_cities"`
	UniqueNeighborhoods bucketsAgg `json:"unique_neighborhoods"`
}

func interpretSuggestions(body io.Reader, query string, limit int) ([]string, error) {
	var aggs suggestionAggregations
	if err := decodeAggregations(body, &aggs); err != nil {
		return nil, err
	}
	return FilterSuggestions(query, bucketKeys(aggs.UniqueCities), bucketKeys(aggs.UniqueNeighborhoods), limit), nil
}

func bucketKeys(a bucketsAgg) []string {
	keys := make([]string, 0, len(a.Buckets))
	for _, b := range a.Buckets {
		keys = append(keys, keyString(b))
	}
	return keys
}
