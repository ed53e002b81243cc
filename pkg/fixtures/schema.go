// pkg/fixtures/schema.go
package fixtures

import "property-search/internal/models"

type FixtureFile struct {
	Version     string            `json:"version"`
	LastUpdated string            `json:"lastUpdated"`
	Properties  []models.Property `json:"properties"`
}

// Cities returns the distinct cities in file order.
func (f *FixtureFile) Cities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range f.Properties {
		if p.Location.City == "" {
			continue
		}
		if _, ok := seen[p.Location.City]; ok {
			continue
		}
		seen[p.Location.City] = struct{}{}
		out = append(out, p.Location.City)
	}
	return out
}
