// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Auth modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// DevUserHeader names the caller when authentication is disabled.
const DevUserHeader = "X-User-ID"

// Principal is the caller of a request.
type Principal struct {
	UserID   int64
	Username string
	// Verified is false when authentication is disabled.
	Verified bool
}

// PrincipalFromContext returns the principal set by Authenticate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}

// ContextWithPrincipal stores p in ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, p)
	if p.UserID > 0 {
		ctx = logging.ContextWithUserID(ctx, p.UserID)
	}
	return ctx
}

// Middleware authenticates requests.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates the middleware. jwtManager may be nil in ModeNone.
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	return &Middleware{jwtManager: jwtManager, authMode: authMode}
}

// Disabled reports whether requests are let through unauthenticated.
func (m *Middleware) Disabled() bool {
	return m.authMode == ModeNone
}

// Authenticate rejects requests without a valid token and stores the
// Principal in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Disabled() {
			p := &Principal{}
			if id, err := strconv.ParseInt(r.Header.Get(DevUserHeader), 10, 64); err == nil && id > 0 {
				p.UserID = id
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
			return
		}

		token, err := extractJWTToken(r)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			unauthorized(w, "invalid token")
			return
		}

		p := &Principal{UserID: claims.UserID, Username: claims.Username, Verified: true}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
	})
}

// extractJWTToken reads the bearer token from the Authorization header or
// the "token" cookie.
func extractJWTToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="wayfarer"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: "Unauthorized: " + message,
		},
	})
}
