package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/service"
)

// FavoriteHandler manages the user's favorites list.
type FavoriteHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(ledger *service.LedgerService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{ledger: ledger, logger: logger}
}

type favoritesResponse struct {
	Properties []model.Property `json:"properties"`
	Count      int              `json:"count"`
}

// HandleList returns the user's favorites as full catalog records.
//
// HTTP: GET /api/favorites
// Auth: required
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	props, err := h.ledger.FavoriteProperties(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favoritesResponse{Properties: props, Count: len(props)})
}

// HandleAdd favorites a property.
//
// HTTP: POST /api/favorites/{propertyID}
// Auth: required
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	propertyID := chi.URLParam(r, "propertyID")
	if err := h.ledger.AddFavorite(r.Context(), userID, propertyID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":    "favorite added",
		"propertyId": propertyID,
	})
}

// HandleRemove unfavorites a property.
//
// HTTP: DELETE /api/favorites/{propertyID}
// Auth: required
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	propertyID := chi.URLParam(r, "propertyID")
	if err := h.ledger.RemoveFavorite(r.Context(), userID, propertyID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "favorite removed",
		"propertyId": propertyID,
	})
}
