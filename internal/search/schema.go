package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"property-search/internal/models"
)

// propertySchema describes a stored listing document. Optional members may
// be null because documents are written by more than one client.
const propertySchema = `{
	"type": "object",
	"required": ["id", "title", "price", "location", "details"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"description": {"type": ["string", "null"]},
		"price": {"type": "number", "minimum": 0},
		"location": {
			"type": "object",
			"required": ["address", "city", "state", "zip_code"],
			"properties": {
				"address": {"type": "string"},
				"city": {"type": "string"},
				"state": {"type": "string"},
				"zip_code": {"type": "string"},
				"latitude": {"type": ["number", "null"]},
				"longitude": {"type": ["number", "null"]},
				"neighborhood": {"type": ["string", "null"]}
			}
		},
		"details": {
			"type": "object",
			"required": ["bedrooms", "bathrooms", "property_type"],
			"properties": {
				"bedrooms": {"type": "integer", "minimum": 0},
				"bathrooms": {"type": "number", "minimum": 0},
				"square_feet": {"type": ["integer", "null"]},
				"lot_size": {"type": ["number", "null"]},
				"year_built": {"type": ["integer", "null"]},
				"property_type": {"type": "string", "minLength": 1},
				"parking": {"type": ["string", "null"]},
				"amenities": {"type": ["array", "null"], "items": {"type": "string"}}
			}
		},
		"images": {"type": ["array", "null"], "items": {"type": "string"}},
		"listing_date": {"type": ["string", "null"]},
		"status": {"enum": ["active", "sold", "pending", null]},
		"agent_contact": {"type": ["string", "null"]}
	}
}`

var compiledPropertySchema = mustCompileSchema(propertySchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile property schema: %v", err))
	}
	return s
}

// validateDocument checks a raw document against the property schema.
func validateDocument(raw []byte) error {
	return checkResult(compiledPropertySchema.Validate(gojsonschema.NewBytesLoader(raw)))
}

// ValidateProperty checks a listing before it is written to the index.
func ValidateProperty(p models.Property) error {
	if err := checkResult(compiledPropertySchema.Validate(gojsonschema.NewGoLoader(p))); err != nil {
		return fmt.Errorf("%w: property %q: %v", ErrValidation, p.ID, err)
	}
	return nil
}

func checkResult(result *gojsonschema.Result, err error) error {
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// decodeProperty validates and decodes one stored document.
func decodeProperty(raw json.RawMessage) (models.Property, error) {
	var p models.Property
	if len(raw) == 0 {
		return p, fmt.Errorf("%w: empty _source", ErrMalformedHit)
	}
	if err := validateDocument(raw); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedHit, err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedHit, err)
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	return p, nil
}
