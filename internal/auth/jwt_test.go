// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/wayfarer/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"

func testJWTConfig() *config.SecurityConfig {
	return &config.SecurityConfig{AuthMode: ModeJWT, JWTSecret: testSecret}
}

// signToken issues a token the way the account service does.
func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validClaims(userID int64) *Claims {
	return &Claims{
		UserID:   userID,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestNewJWTManager(t *testing.T) {
	if _, err := NewJWTManager(testJWTConfig()); err != nil {
		t.Errorf("NewJWTManager() unexpected error = %v", err)
	}
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("NewJWTManager() expected error for empty secret")
	}
}

func TestValidateToken(t *testing.T) {
	manager, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatal(err)
	}

	subjectOnly := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "17",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	expired := validClaims(1)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := validClaims(1)
	noExpiry.ExpiresAt = nil
	noUser := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	tests := []struct {
		name     string
		token    string
		wantUser int64
		wantErr  bool
	}{
		{"valid", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(42)), 42, false},
		{"user from subject", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), subjectOnly), 17, false},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("another_secret_that_is_long_enough_1234"), validClaims(42)), 0, true},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(42)), 0, true},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), 0, true},
		{"no expiry", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), 0, true},
		{"no user", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noUser), 0, true},
		{"garbage", "not.a.token", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := manager.ValidateToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateToken() expected error, got claims %+v", claims)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateToken() unexpected error = %v", err)
			}
			if claims.UserID != tt.wantUser {
				t.Errorf("UserID = %d, want %d", claims.UserID, tt.wantUser)
			}
		})
	}

	_, err = manager.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noUser))
	if !errors.Is(err, ErrNoUser) {
		t.Errorf("ValidateToken(no user) error = %v, want ErrNoUser", err)
	}
}
