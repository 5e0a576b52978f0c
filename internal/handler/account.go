package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/service"
)

// sessionMaxAge mirrors the token TTL so cookie and token expire together.
const sessionMaxAge = 24 * time.Hour

// AccountHandler exposes registration, login, logout and the profile.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	City     string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Age      int    `json:"age"`
	City     string `json:"city"`
}

// HandleRegister creates an account and signs the user in.
//
// HTTP: POST /api/register
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password, req.Age, req.City)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, result.User)
}

// HandleLogin verifies credentials and issues the session cookie.
//
// HTTP: POST /api/login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/logout
//
// Logout is a POST because it changes state; a GET would be open to CSRF
// and to browsers prefetching the URL. Being stateless, "logout" is just
// deleting the client's cookie; the token ages out on its own.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's account record.
//
// HTTP: GET /api/me
// Auth: required
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't bet on routing.
		writeError(w, apperror.InvalidCredentials())
		return
	}

	user, err := h.accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("me: fetching user failed", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile edits the mutable profile fields.
//
// HTTP: PUT /api/me
// Auth: required
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), userID, req.Username, req.Age, req.City)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie stores the JWT in an HttpOnly cookie.
// SameSite=Lax keeps the cookie off cross-site POSTs. Secure stays off for
// local development; enable it behind HTTPS.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
