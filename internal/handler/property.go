package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/catalog"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/service"
)

// PropertyHandler serves the marketplace listing and per-user portfolio.
type PropertyHandler struct {
	catalog *catalog.Catalog
	ledger  *service.LedgerService
	logger  *slog.Logger
}

// NewPropertyHandler creates a PropertyHandler.
func NewPropertyHandler(cat *catalog.Catalog, ledger *service.LedgerService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{catalog: cat, ledger: ledger, logger: logger}
}

// listResponse wraps the listing with a count, the shape the marketplace
// page renders from.
type listResponse struct {
	Properties []model.Property `json:"properties"`
	Count      int              `json:"count"`
}

// HandleList returns the filtered marketplace view.
//
// HTTP: GET /api/properties?status=&type=&minPrice=&maxPrice=&bedrooms=&location=&search=&sort=
// Auth: none (public listing)
func (h *PropertyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := catalog.Filter{
		Status:   model.PropertyStatus(q.Get("status")),
		Type:     q.Get("type"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort"),
	}

	var err error
	if f.MinPrice, err = parseInt64(q.Get("minPrice")); err != nil {
		writeError(w, apperror.ValidationFailed("minPrice", "must be a whole number"))
		return
	}
	if f.MaxPrice, err = parseInt64(q.Get("maxPrice")); err != nil {
		writeError(w, apperror.ValidationFailed("maxPrice", "must be a whole number"))
		return
	}
	if raw := q.Get("bedrooms"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, apperror.ValidationFailed("bedrooms", "must be a whole number"))
			return
		}
		f.MinBedrooms = n
	}

	props := h.catalog.List(f)
	writeJSON(w, http.StatusOK, listResponse{Properties: props, Count: len(props)})
}

// HandleGet returns a single listing.
//
// HTTP: GET /api/properties/{id}
func (h *PropertyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	prop, err := h.catalog.ByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

// portfolioResponse carries the resolved holdings plus counts for the
// profile page header.
type portfolioResponse struct {
	Owned       []model.Property `json:"owned"`
	Rented      []model.Property `json:"rented"`
	OwnedCount  int              `json:"ownedCount"`
	RentedCount int              `json:"rentedCount"`
}

// HandlePortfolio returns the user's owned and rented properties.
//
// HTTP: GET /api/portfolio
// Auth: required
func (h *PropertyHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	portfolio, err := h.ledger.Portfolio(r.Context(), userID)
	if err != nil {
		h.logger.Error("portfolio: lookup failed", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolioResponse{
		Owned:       portfolio.Owned,
		Rented:      portfolio.Rented,
		OwnedCount:  len(portfolio.Owned),
		RentedCount: len(portfolio.Rented),
	})
}

// parseInt64 parses an optional non-negative number parameter.
func parseInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
