package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler records whether it ran and what userID it saw.
func okHandler(ran *bool, seenID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if id, ok := UserIDFromContext(r.Context()); ok {
			*seenID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

// =========================================================================
// RequireAuth TESTS
// =========================================================================

func TestRequireAuth_ValidCookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-42")

	var ran bool
	var seenID string
	handler := RequireAuth(ts)(okHandler(&ran, &seenID))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ran {
		t.Fatal("inner handler did not run")
	}
	if seenID != "user-42" {
		t.Errorf("userID in context = %q, want user-42", seenID)
	}
}

func TestRequireAuth_NoCookie(t *testing.T) {
	ts := newTestTokenService(t)

	var ran bool
	var seenID string
	handler := RequireAuth(ts)(okHandler(&ran, &seenID))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Error("inner handler ran for an anonymous request")
	}
}

func TestRequireAuth_BadToken(t *testing.T) {
	ts := newTestTokenService(t)

	var ran bool
	var seenID string
	handler := RequireAuth(ts)(okHandler(&ran, &seenID))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Error("inner handler ran with an invalid token")
	}
}

// =========================================================================
// OptionalAuth TESTS
// =========================================================================

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	ts := newTestTokenService(t)

	var ran bool
	var seenID string
	handler := OptionalAuth(ts)(okHandler(&ran, &seenID))

	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ran {
		t.Fatal("inner handler did not run for anonymous request")
	}
	if seenID != "" {
		t.Errorf("anonymous request should carry no userID, got %q", seenID)
	}
}

func TestOptionalAuth_AttachesIdentityWhenPresent(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("user-7")

	var ran bool
	var seenID string
	handler := OptionalAuth(ts)(okHandler(&ran, &seenID))

	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenID != "user-7" {
		t.Errorf("userID in context = %q, want user-7", seenID)
	}
}
