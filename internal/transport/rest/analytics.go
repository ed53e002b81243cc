package rest

import (
	"errors"
	"net/http"
	"strings"

	apperrors "property-search/internal/common/errors"
	"property-search/internal/models"
)

type trendsRequest struct {
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	TimePeriod   string `json:"time_period"`
}

type suggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type snapshotsResponse struct {
	Location  string                  `json:"location"`
	Snapshots []models.MarketSnapshot `json:"snapshots"`
}

// Health reports the backend cluster, or 503 when it cannot be reached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.properties.Health(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// LocationTrends handles POST /api/trends/location. Backend trouble yields
// a zero-valued report, never an error.
func (h *Handler) LocationTrends(w http.ResponseWriter, r *http.Request) {
	var req trendsRequest
	if !h.decode(w, r, "LocationTrends", &req) {
		return
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		h.invalid(w, "LocationTrends", "location is required")
		return
	}

	respondJSON(w, http.StatusOK, h.trends.GetLocationTrends(r.Context(), req.Location, req.PropertyType, req.TimePeriod))
}

func (h *Handler) LocationSuggestions(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	query := q.str("q")
	if query == "" {
		query = q.str("query")
	}
	limit := q.intValue("limit", 0)
	if err := q.err(); err != nil {
		h.invalid(w, "LocationSuggestions", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, suggestionsResponse{
		Query:       query,
		Suggestions: h.properties.GetLocationSuggestions(r.Context(), query, limit),
	})
}

func (h *Handler) PropertyStatistics(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	respondJSON(w, http.StatusOK, h.properties.GetPropertyStatistics(r.Context(), q.str("location"), q.str("property_type")))
}

// MarketSnapshots lists recorded statistics snapshots for one location.
func (h *Handler) MarketSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		h.errors.Respond(w, "MarketSnapshots", apperrors.NewSnapshotStoreFailedError(errors.New("snapshot store is disabled")))
		return
	}

	q := newQueryParams(r)
	location := q.str("location")
	limit := q.intValue("limit", 0)
	if err := q.err(); err != nil {
		h.invalid(w, "MarketSnapshots", err.Error())
		return
	}
	if location == "" {
		h.invalid(w, "MarketSnapshots", "location is required")
		return
	}

	snaps, err := h.snapshots.Recent(r.Context(), location, limit)
	if err != nil {
		h.fail(w, "MarketSnapshots", err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotsResponse{Location: location, Snapshots: snaps})
}
