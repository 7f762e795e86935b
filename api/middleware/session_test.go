package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionUsesHeaderWhenPresent(t *testing.T) {
	sessionID := uuid.NewString()

	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionHeader, sessionID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != sessionID {
		t.Fatalf("expected session %s got %s", sessionID, captured)
	}
	if got := resp.Header().Get(sessionHeader); got != sessionID {
		t.Fatalf("expected echoed header %s got %s", sessionID, got)
	}
}

func TestSessionHeaderWinsOverCookie(t *testing.T) {
	headerID := uuid.NewString()
	cookieID := uuid.NewString()

	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionHeader, headerID)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookieID})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != headerID {
		t.Fatalf("expected header session %s got %s", headerID, captured)
	}
}

func TestSessionFallsBackToCookie(t *testing.T) {
	cookieID := uuid.NewString()

	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookieID})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != cookieID {
		t.Fatalf("expected cookie session %s got %s", cookieID, captured)
	}
}

func TestSessionMintsIDForNewVisitors(t *testing.T) {
	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected minted uuid got %q: %v", captured, err)
	}
	if resp.Header().Get(sessionHeader) != captured {
		t.Fatal("expected minted id echoed in response header")
	}

	cookies := resp.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == sessionCookie && c.Value == captured {
			found = true
		}
	}
	if !found {
		t.Fatal("expected minted id persisted in session cookie")
	}
}

func TestSessionRejectsMalformedID(t *testing.T) {
	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionHeader, "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured == "not-a-uuid" {
		t.Fatal("malformed session id should be replaced")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected minted uuid got %q: %v", captured, err)
	}
}
