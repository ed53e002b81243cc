package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/internal/models"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.json")
	in := &FixtureFile{
		Version: "1",
		Properties: []models.Property{
			{ID: "a", Title: "A", Location: models.Location{City: "Austin"}},
			{ID: "b", Title: "B", Location: models.Location{City: "Denver"}},
			{ID: "c", Title: "C", Location: models.Location{City: "Austin"}},
			{ID: "d", Title: "D"},
		},
	}
	require.NoError(t, Save(path, in))
	assert.NotEmpty(t, in.LastUpdated)

	out, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, out.Properties, 4)
	assert.Equal(t, []string{"Austin", "Denver"}, out.Cities())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"properties":`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse fixtures")
}

func TestLoad_BundledFixtures(t *testing.T) {
	f, err := Load(filepath.Join("..", "..", "configs", "fixtures", "properties.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, f.Properties)
}
