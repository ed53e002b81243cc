package queries

import "strings"

var sortFields = map[string]string{
	"price":     FieldPrice,
	"date":      FieldListingDate,
	"bedrooms":  FieldBedrooms,
	"sqft":      FieldSquareFeet,
	"relevance": "_score",
}

// BuildSort maps a sort key and direction to a sort directive. Unknown keys
// sort by price ascending and relevance is always descending.
func BuildSort(sortBy, sortOrder string) []map[string]interface{} {
	field, ok := sortFields[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return []map[string]interface{}{
			{FieldPrice: map[string]interface{}{"order": "asc"}},
		}
	}

	if field == "_score" {
		return []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
		}
	}

	order := "asc"
	switch strings.ToLower(strings.TrimSpace(sortOrder)) {
	case "desc", "descending":
		order = "desc"
	}

	return []map[string]interface{}{
		{field: map[string]interface{}{"order": order}},
	}
}

// Offset returns the zero-based hit offset of a 1-based page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
