package search

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]interface{}
		wantErr string
	}{
		{"price", map[string]interface{}{"price": 410000}, ""},
		{"decoded json numbers", map[string]interface{}{"details": map[string]interface{}{"bedrooms": 4.0, "bathrooms": 2.5}}, ""},
		{"nullable", map[string]interface{}{"description": nil, "location": map[string]interface{}{"latitude": nil}}, ""},
		{"empty", map[string]interface{}{}, "no fields to update"},
		{"id is immutable", map[string]interface{}{"id": "other"}, "id: field not allowed in schema"},
		{"negative price", map[string]interface{}{"price": -1}, "price: value must be >= 0"},
		{"bad status", map[string]interface{}{"status": "archived"}, "status: value must be one of"},
		{"fractional bedrooms", map[string]interface{}{"details": map[string]interface{}{"bedrooms": 2.5}}, "details.bedrooms"},
		{"unknown nested field", map[string]interface{}{"location": map[string]interface{}{"country": "US"}}, "location.country"},
		{"amenity type", map[string]interface{}{"details": map[string]interface{}{"amenities": []interface{}{"pool", 3.0}}}, "details.amenities[1]"},
		{"null title", map[string]interface{}{"title": nil}, "title: value must not be null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdate(tt.fields)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrValidation))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUpdateProperty_RejectsInvalidFields(t *testing.T) {
	engine, fake := newTestEngine(t, respond(http.StatusOK, `{"result":"updated"}`))

	_, err := engine.UpdateProperty(context.Background(), "p-1", map[string]interface{}{"status": "archived"})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, fake.calls())
}
