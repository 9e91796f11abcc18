// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// principalEcho writes the caller's user ID, or 0 when none is set.
var principalEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Verified", strconv.FormatBool(p.Verified))
	_, _ = w.Write([]byte(strconv.FormatInt(p.UserID, 10)))
})

func TestMiddleware_Authenticate_JWT(t *testing.T) {
	manager, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMiddleware(manager, ModeJWT)
	handler := m.Authenticate(principalEcho)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(42))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "42"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) }, http.StatusOK, "42"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, ""},
		{"dev header ignored", func(r *http.Request) { r.Header.Set(DevUserHeader, "7") }, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/1/recommendations", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if w.Body.String() != tt.wantBody {
					t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
				}
				if w.Header().Get("X-Verified") != "true" {
					t.Error("principal should be verified")
				}
			} else if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestMiddleware_Authenticate_None(t *testing.T) {
	m := NewMiddleware(nil, ModeNone)
	if !m.Disabled() {
		t.Fatal("ModeNone should be disabled")
	}
	handler := m.Authenticate(principalEcho)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DevUserHeader, "7")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "7" || w.Header().Get("X-Verified") != "false" {
		t.Errorf("got %d %q verified=%s", w.Code, w.Body.String(), w.Header().Get("X-Verified"))
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || w.Body.String() != "0" {
		t.Errorf("anonymous request: got %d %q", w.Code, w.Body.String())
	}
}
