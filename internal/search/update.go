package search

import (
	"fmt"
	"strings"

	"property-search/internal/common/validation"
)

// updateSchema bounds what a partial update may touch. The id is immutable
// and nested objects only accept the fields the index maps.
const updateSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"description": {"type": "string", "nullable": true},
		"price": {"type": "number", "minimum": 0},
		"status": {"type": "string", "enum": ["active", "sold", "pending"]},
		"listing_date": {"type": "string", "nullable": true},
		"agent_contact": {"type": "string", "nullable": true},
		"images": {"type": "array", "nullable": true, "items": {"type": "string"}},
		"location": {
			"type": "object",
			"closed": true,
			"properties": {
				"address": {"type": "string"},
				"city": {"type": "string"},
				"state": {"type": "string"},
				"zip_code": {"type": "string"},
				"latitude": {"type": "number", "nullable": true, "minimum": -90, "maximum": 90},
				"longitude": {"type": "number", "nullable": true, "minimum": -180, "maximum": 180},
				"neighborhood": {"type": "string", "nullable": true}
			}
		},
		"details": {
			"type": "object",
			"closed": true,
			"properties": {
				"bedrooms": {"type": "integer", "minimum": 0},
				"bathrooms": {"type": "number", "minimum": 0},
				"square_feet": {"type": "integer", "nullable": true, "minimum": 0},
				"lot_size": {"type": "number", "nullable": true, "minimum": 0},
				"year_built": {"type": "integer", "nullable": true},
				"property_type": {"type": "string", "minLength": 1},
				"parking": {"type": "string", "nullable": true},
				"amenities": {"type": "array", "nullable": true, "items": {"type": "string"}}
			}
		}
	}
}`

var compiledUpdateSchema = mustParseUpdateSchema(updateSchema)

func mustParseUpdateSchema(raw string) validation.JSONSchema {
	s, err := validation.GetSchemaFromJSON(raw)
	if err != nil {
		panic(fmt.Sprintf("parse update schema: %v", err))
	}
	return s
}

// ValidateUpdate checks the fields of a partial update.
func ValidateUpdate(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	result := validation.ValidateInput(fields, compiledUpdateSchema)
	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
