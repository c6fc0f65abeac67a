package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/middleware"
	"github.com/atinyakov/DevHub/internal/models"
)

// ProfileService defines the profile operations served over HTTP.
type ProfileService interface {
	Me(ctx context.Context, userID int64) (*models.Profile, error)
	ByUsername(ctx context.Context, username string) (*models.Profile, error)
	Search(ctx context.Context, query string) ([]models.Profile, error)
	Update(ctx context.Context, userID, id int64, s models.ProfileSettings) (*models.Profile, error)
}

// ProfileHandler serves profile endpoints.
type ProfileHandler struct {
	Profiles ProfileService
	Log      *zap.Logger
}

// Me returns the profile of the authenticated account.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	p, err := h.Profiles.Me(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Search lists profiles matching the "search" query parameter as a bare array.
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	list, err := h.Profiles.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ByUsername returns one profile or 404.
func (h *ProfileHandler) ByUsername(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.ByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update partially updates the profile in the URL. Only its owner may do so.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	var settings models.ProfileSettings
	if !decode(w, r, &settings) {
		return
	}
	p, err := h.Profiles.Update(r.Context(), userID, id, settings)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
