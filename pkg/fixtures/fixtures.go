// pkg/fixtures/fixtures.go
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

func Load(path string) (*FixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f FixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f back with a refreshed lastUpdated stamp.
func Save(path string, f *FixtureFile) error {
	f.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
