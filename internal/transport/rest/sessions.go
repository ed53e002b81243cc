package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "property-search/internal/common/errors"
	"property-search/internal/models"
)

func (h *Handler) sessionsEnabled(w http.ResponseWriter, operation string) bool {
	if h.sessions != nil {
		return true
	}
	h.errors.Respond(w, operation, apperrors.NewCacheUnavailableError(errors.New("session store is disabled")))
	return false
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "ListFavorites") {
		return
	}
	favs, err := h.sessions.Favorites(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.fail(w, "ListFavorites", err)
		return
	}
	respondJSON(w, http.StatusOK, favs)
}

// AddFavorite only accepts properties that exist in the index.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "AddFavorite") {
		return
	}
	userID := chi.URLParam(r, "userID")
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.properties.GetProperty(r.Context(), propertyID); err != nil {
		h.fail(w, "AddFavorite", err)
		return
	}

	added, err := h.sessions.AddFavorite(r.Context(), userID, propertyID)
	if err != nil {
		h.fail(w, "AddFavorite", err)
		return
	}
	msg := "Property added to favorites"
	if !added {
		msg = "Property already in favorites"
	}
	respondJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"user_id": userID, "property_id": propertyID},
		Message: msg,
	})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "RemoveFavorite") {
		return
	}
	propertyID := chi.URLParam(r, "propertyID")

	removed, err := h.sessions.RemoveFavorite(r.Context(), chi.URLParam(r, "userID"), propertyID)
	if err != nil {
		h.fail(w, "RemoveFavorite", err)
		return
	}
	if !removed {
		h.errors.Respond(w, "RemoveFavorite", apperrors.NewPropertyNotFoundError(propertyID).
			WithMetadata("reason", "not in favorites"))
		return
	}
	respondJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Property removed from favorites"})
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "ChatHistory") {
		return
	}
	q := newQueryParams(r)
	limit := q.intValue("limit", 0)
	if err := q.err(); err != nil {
		h.invalid(w, "ChatHistory", err.Error())
		return
	}

	history, err := h.sessions.History(r.Context(), chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		h.fail(w, "ChatHistory", err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// AppendChatMessage stores a message verbatim; nothing here interprets it.
func (h *Handler) AppendChatMessage(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "AppendChatMessage") {
		return
	}
	var msg models.ChatMessage
	if !h.decode(w, r, "AppendChatMessage", &msg) {
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	if err := h.sessions.AppendMessage(r.Context(), chi.URLParam(r, "sessionID"), msg); err != nil {
		h.fail(w, "AppendChatMessage", err)
		return
	}
	respondJSON(w, http.StatusCreated, APIResponse{Success: true, Data: msg})
}

func (h *Handler) ClearChatHistory(w http.ResponseWriter, r *http.Request) {
	if !h.sessionsEnabled(w, "ClearChatHistory") {
		return
	}
	if err := h.sessions.ClearHistory(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, "ClearChatHistory", err)
		return
	}
	respondJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Chat history cleared"})
}
