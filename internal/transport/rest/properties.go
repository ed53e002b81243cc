package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "property-search/internal/common/errors"
	"property-search/internal/models"
)

// SearchProperties handles POST /api/properties/search.
func (h *Handler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	req := models.DefaultSearchRequest()
	if !h.decode(w, r, "SearchProperties", &req) {
		return
	}
	h.search(w, r, req)
}

// SearchPropertiesQuery handles GET /api/properties/search with the flat
// filter fields as query parameters.
func (h *Handler) SearchPropertiesQuery(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := models.DefaultSearchRequest()
	req.Query = q.str("query")
	req.Location = q.str("location")
	req.PropertyType = q.str("property_type")
	req.MinPrice = q.floatPtr("min_price")
	req.MaxPrice = q.floatPtr("max_price")
	req.MinBedrooms = q.intPtr("min_bedrooms")
	req.MaxBedrooms = q.intPtr("max_bedrooms")
	req.MinBathrooms = q.floatPtr("min_bathrooms")
	req.MaxBathrooms = q.floatPtr("max_bathrooms")
	req.MinSqft = q.intPtr("min_sqft")
	req.MaxSqft = q.intPtr("max_sqft")
	req.Amenities = q.list("amenities")
	req.Page = q.intValue("page", req.Page)
	req.Limit = q.intValue("limit", req.Limit)
	if v := q.str("sort_by"); v != "" {
		req.SortBy = v
	}
	if v := q.str("sort_order"); v != "" {
		req.SortOrder = v
	}
	if err := q.err(); err != nil {
		h.invalid(w, "SearchProperties", err.Error())
		return
	}
	h.search(w, r, req)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, req models.SearchRequest) {
	resp, err := h.properties.SearchProperties(r.Context(), req)
	if err != nil {
		h.fail(w, "SearchProperties", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "GetProperty", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) AddProperty(w http.ResponseWriter, r *http.Request) {
	var p models.Property
	if !h.decode(w, r, "AddProperty", &p) {
		return
	}

	id, err := h.properties.AddProperty(r.Context(), p)
	if err != nil {
		h.fail(w, "AddProperty", err)
		return
	}

	h.refreshAfterWrite([]string{p.Location.City})
	respondJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    map[string]string{"id": id},
		Message: "Property added successfully",
	})
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var fields map[string]interface{}
	if !h.decode(w, r, "UpdateProperty", &fields) {
		return
	}
	if len(fields) == 0 {
		h.invalid(w, "UpdateProperty", "no fields to update")
		return
	}

	updated, err := h.properties.UpdateProperty(r.Context(), id, fields)
	if err != nil {
		h.fail(w, "UpdateProperty", err)
		return
	}
	if !updated {
		h.errors.Respond(w, "UpdateProperty", apperrors.NewPropertyNotFoundError(id))
		return
	}
	respondJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Property updated successfully"})
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.properties.DeleteProperty(r.Context(), id)
	if err != nil {
		h.fail(w, "DeleteProperty", err)
		return
	}
	if !deleted {
		h.errors.Respond(w, "DeleteProperty", apperrors.NewPropertyNotFoundError(id))
		return
	}
	respondJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Property deleted successfully"})
}

func (h *Handler) BulkAddProperties(w http.ResponseWriter, r *http.Request) {
	var properties []models.Property
	if !h.decode(w, r, "BulkAddProperties", &properties) {
		return
	}

	result, err := h.properties.BulkAddProperties(r.Context(), properties)
	if err != nil {
		h.fail(w, "BulkAddProperties", err)
		return
	}

	if result.Indexed > 0 {
		cities := make([]string, 0, len(properties))
		for _, p := range properties {
			cities = append(cities, p.Location.City)
		}
		h.refreshAfterWrite(cities)
	}

	status := http.StatusOK
	if result.HasFailures() {
		status = http.StatusMultiStatus
	}
	respondJSON(w, status, APIResponse{
		Success: !result.HasFailures(),
		Data:    result,
		Message: fmt.Sprintf("Indexed %d of %d properties", result.Indexed, len(properties)),
	})
}
