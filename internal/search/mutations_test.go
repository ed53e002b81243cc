package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/internal/models"
)

func TestAddThenGetRoundTrip(t *testing.T) {
	index := newMemoryIndex()
	engine, fake := newTestEngine(t, index.handle)
	ctx := context.Background()

	original := sampleProperty("prop-42", "Austin", 525000)
	id, err := engine.AddProperty(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, "prop-42", id)

	put := fake.calls()[0]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, "/properties/_doc/prop-42", put.Path)
	assert.Contains(t, put.Query, "refresh=wait_for")

	fetched, err := engine.GetProperty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, original, *fetched)
}

func TestAddProperty_AssignsIDAndDefaults(t *testing.T) {
	index := newMemoryIndex()
	engine, _ := newTestEngine(t, index.handle)
	ctx := context.Background()

	p := sampleProperty("", "Denver", 300000)
	p.Status = ""
	p.Images = nil

	id, err := engine.AddProperty(ctx, p)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)

	fetched, err := engine.GetProperty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, fetched.ID)
	assert.Equal(t, models.StatusActive, fetched.Status)
	assert.Equal(t, []string{}, fetched.Images)
}

func TestAddProperty_RejectsInvalid(t *testing.T) {
	engine, fake := newTestEngine(t, respond(http.StatusCreated, `{}`))

	p := sampleProperty("bad", "Austin", -5)
	_, err := engine.AddProperty(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, fake.calls())
}

func TestGetProperty_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t, newMemoryIndex().handle)

	_, err := engine.GetProperty(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPropertyNotFound))
	assert.Equal(t, "propertyId: missing", ToStandardError(err).Details)
}

func TestGetProperty_MalformedSource(t *testing.T) {
	engine, _ := newTestEngine(t, respond(http.StatusOK, `{"_id":"x","found":true,"_source":{"id":"x","price":"cheap"}}`))

	_, err := engine.GetProperty(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrMalformedHit))
}

func TestUpdateProperty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"updated", http.StatusOK, `{"result":"updated"}`, true},
		{"noop", http.StatusOK, `{"result":"noop"}`, true},
		{"not found", http.StatusNotFound, `{"error":{"type":"document_missing_exception"},"status":404}`, false},
		{"unexpected result", http.StatusOK, `{"result":"created"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, fake := newTestEngine(t, respond(tt.status, tt.body))

			ok, err := engine.UpdateProperty(context.Background(), "p-1", map[string]interface{}{"price": 410000})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			call := fake.calls()[0]
			assert.Equal(t, http.MethodPost, call.Method)
			assert.Equal(t, "/properties/_update/p-1", call.Path)
			assert.JSONEq(t, `{"doc":{"price":410000}}`, string(call.Body))
		})
	}
}

func TestUpdateProperty_Errors(t *testing.T) {
	engine, fake := newTestEngine(t, respond(http.StatusInternalServerError, `{}`))

	_, err := engine.UpdateProperty(context.Background(), "", map[string]interface{}{"price": 1})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, fake.calls())

	_, err = engine.UpdateProperty(context.Background(), "p-1", map[string]interface{}{"price": 1})
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestDeleteProperty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"deleted", http.StatusOK, `{"result":"deleted"}`, true},
		{"not found", http.StatusNotFound, `{"result":"not_found"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, fake := newTestEngine(t, respond(tt.status, tt.body))

			ok, err := engine.DeleteProperty(context.Background(), "p-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, http.MethodDelete, fake.calls()[0].Method)
			assert.Equal(t, "/properties/_doc/p-1", fake.calls()[0].Path)
		})
	}

	engine, _ := newTestEngine(t, respond(http.StatusInternalServerError, `{}`))
	_, err := engine.DeleteProperty(context.Background(), "p-1")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestBulkAddThenSearch(t *testing.T) {
	index := newMemoryIndex()
	engine, fake := newTestEngine(t, index.handle)
	ctx := context.Background()

	batch := []models.Property{
		sampleProperty("b-1", "Austin", 310000),
		sampleProperty("b-2", "Austin", 450000),
		sampleProperty("b-3", "Dallas", 275000),
	}

	result, err := engine.BulkAddProperties(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Indexed)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "b-2", result.Items[1].ID)
	assert.Equal(t, http.StatusCreated, result.Items[1].Status)

	bulk := fake.calls()[0]
	assert.Equal(t, "/properties/_bulk", bulk.Path)
	lines := ndjsonLines(t, bulk.Body)
	require.Len(t, lines, 6)
	assert.JSONEq(t, `{"index":{"_index":"properties","_id":"b-1"}}`, lines[0])

	resp, err := engine.SearchProperties(ctx, models.DefaultSearchRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	ids := []string{}
	for _, p := range resp.Properties {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"b-1", "b-2", "b-3"}, ids)
}

func TestBulkAddProperties_PerItemFailures(t *testing.T) {
	engine, _ := newTestEngine(t, respond(http.StatusOK, `{
		"took": 5,
		"errors": true,
		"items": [
			{"index": {"_id": "a", "status": 201, "result": "created"}},
			{"index": {"_id": "b", "status": 400, "error": {"type": "mapper_parsing_exception", "reason": "failed to parse field [price]"}}}
		]
	}`))

	result, err := engine.BulkAddProperties(context.Background(), []models.Property{
		sampleProperty("a", "Austin", 1),
		sampleProperty("b", "Austin", 2),
	})
	require.NoError(t, err)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "mapper_parsing_exception: failed to parse field [price]", result.Items[1].Error)
}

func TestBulkAddProperties_ValidatesBeforeSending(t *testing.T) {
	engine, fake := newTestEngine(t, respond(http.StatusOK, `{"errors":false,"items":[]}`))

	bad := sampleProperty("b", "Austin", 100)
	bad.Title = ""

	_, err := engine.BulkAddProperties(context.Background(), []models.Property{sampleProperty("a", "Austin", 1), bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "item 1")
	assert.Empty(t, fake.calls())
}

func TestBulkAddProperties_Empty(t *testing.T) {
	engine, fake := newTestEngine(t, respond(http.StatusOK, `{}`))

	result, err := engine.BulkAddProperties(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Indexed)
	assert.NotNil(t, result.Items)
	assert.Empty(t, fake.calls())
}

func ndjsonLines(t *testing.T, body []byte) []string {
	t.Helper()
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		require.True(t, json.Valid([]byte(line)), line)
		lines = append(lines, line)
	}
	return lines
}
