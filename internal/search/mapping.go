package search

func field(kind string) map[string]interface{} {
	return map[string]interface{}{"type": kind}
}

// IndexMapping is the property index definition created by EnsureIndex.
func IndexMapping() map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          field("keyword"),
				"title":       field("text"),
				"description": field("text"),
				"price":       field("float"),
				"location": map[string]interface{}{
					"properties": map[string]interface{}{
						"address":      field("text"),
						"city":         field("keyword"),
						"state":        field("keyword"),
						"zip_code":     field("keyword"),
						"latitude":     field("float"),
						"longitude":    field("float"),
						"neighborhood": field("keyword"),
					},
				},
				"details": map[string]interface{}{
					"properties": map[string]interface{}{
						"bedrooms":      field("integer"),
						"bathrooms":     field("float"),
						"square_feet":   field("integer"),
						"lot_size":      field("float"),
						"year_built":    field("integer"),
						"property_type": field("keyword"),
						"parking":       field("keyword"),
						"amenities":     field("keyword"),
					},
				},
				"images":        field("keyword"),
				"listing_date":  field("date"),
				"status":        field("keyword"),
				"agent_contact": field("keyword"),
			},
		},
	}
}
