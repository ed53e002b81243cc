package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "property-search/internal/common/errors"
)

// APIResponse wraps the result of write operations.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) fail(w http.ResponseWriter, operation string, err error) {
	h.errors.Respond(w, operation, toStandardError(err))
}

func (h *Handler) invalid(w http.ResponseWriter, operation, details string) {
	h.errors.Respond(w, operation, apperrors.NewValidationError(details))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, operation string, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		h.invalid(w, operation, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

type queryParams struct {
	values map[string][]string
	errs   []string
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) str(name string) string {
	if v := q.values[name]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *queryParams) intValue(name string, def int) int {
	if p := q.intPtr(name); p != nil {
		return *p
	}
	return def
}

func (q *queryParams) intPtr(name string) *int {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.errs = append(q.errs, fmt.Sprintf("%s must be an integer", name))
		return nil
	}
	return &n
}

func (q *queryParams) floatPtr(name string) *float64 {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.errs = append(q.errs, fmt.Sprintf("%s must be a number", name))
		return nil
	}
	return &f
}

// list accepts both repeated parameters and comma separated values.
func (q *queryParams) list(name string) []string {
	var out []string
	for _, v := range q.values[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (q *queryParams) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(q.errs, "; "))
}
