package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/payment"
	"github.com/prasetya/safestate/internal/service"
)

// PaymentHandler exposes the calculator and the purchase flow.
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *slog.Logger
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// HandleQuote prices a payment option without persisting anything.
//
// HTTP: GET /api/properties/{id}/quote?option=downPayment&plan=3x&method=bankTransfer
// Auth: none; quoting is part of browsing
func (h *PaymentHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	quote, err := h.payments.Quote(
		r.Context(),
		chi.URLParam(r, "id"),
		payment.Option(q.Get("option")),
		payment.Plan(q.Get("plan")),
		q.Get("method"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

type purchaseRequest struct {
	Option payment.Option `json:"option"`
	Plan   payment.Plan   `json:"plan"`
	Method string         `json:"method"`
}

// HandlePurchase confirms a purchase: persists the payment and grants the
// holding.
//
// HTTP: POST /api/properties/{id}/purchase
// Auth: required
func (h *PaymentHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	receipt, err := h.payments.Confirm(r.Context(), userID, chi.URLParam(r, "id"), req.Option, req.Plan, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

type paymentsResponse struct {
	Payments []model.Payment `json:"payments"`
	Count    int             `json:"count"`
}

// HandleListPayments returns the user's payment sequence, oldest first.
//
// HTTP: GET /api/payments
// Auth: required
func (h *PaymentHandler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	payments, err := h.payments.Payments(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentsResponse{Payments: payments, Count: len(payments)})
}
