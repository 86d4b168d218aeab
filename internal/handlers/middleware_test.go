package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homehub/internal/models"
	"homehub/internal/security"
)

func TestRequireAJAX(t *testing.T) {
	called := false
	handler := RequireAJAX(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/notes", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if called {
		t.Error("handler ran without the AJAX header")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/notes", nil)
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	w = httptest.NewRecorder()
	handler(w, r)

	if !called {
		t.Error("handler did not run with the AJAX header")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	handler := RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after budget exhausted, got %d", w.Code)
	}

	// A different IP has its own budget
	r = httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for a fresh IP, got %d", w.Code)
	}
}

func TestContextHelpers(t *testing.T) {
	user := &models.User{ID: 7, Username: "sam"}
	session := &models.Session{ID: "abc", UserID: 7}

	ctx := context.WithValue(context.Background(), UserContextKey, user)
	ctx = context.WithValue(ctx, SessionContextKey, session)
	ctx = context.WithValue(ctx, FamilyContextKey, int64(3))

	if got := GetUserFromContext(ctx); got == nil || got.ID != 7 {
		t.Errorf("GetUserFromContext = %v", got)
	}
	if got := GetSessionFromContext(ctx); got == nil || got.ID != "abc" {
		t.Errorf("GetSessionFromContext = %v", got)
	}
	if got := GetFamilyIDFromContext(ctx); got != 3 {
		t.Errorf("GetFamilyIDFromContext = %d", got)
	}

	empty := context.Background()
	if GetUserFromContext(empty) != nil || GetSessionFromContext(empty) != nil || GetFamilyIDFromContext(empty) != 0 {
		t.Error("expected zero values from an empty context")
	}
}

func TestRespondEnvelopes(t *testing.T) {
	w := httptest.NewRecorder()
	respondSuccess(w, http.StatusCreated, map[string]interface{}{"id": 1})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["success"] != true {
		t.Errorf("expected success envelope, got %v", body)
	}

	w = httptest.NewRecorder()
	respondError(w, http.StatusNotFound, "nope")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["success"] != false || body["message"] != "nope" {
		t.Errorf("expected error envelope, got %v", body)
	}
}
