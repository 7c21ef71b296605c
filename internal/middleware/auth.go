// Package middleware provides HTTP middleware for the modelkeep API.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelkeep/modelkeep/internal/auth"
	"github.com/modelkeep/modelkeep/internal/token"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *token.Service
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies it,
// and injects the resolved user identity into the request context. Handlers
// behind it never re-parse the token.
//
// A missing or malformed header yields 401; a present-but-rejected token
// yields 400. The split mirrors the API this service replaced, and external
// consumers depend on it, so it is kept rather than normalized.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := extractBearerToken(r)
			if bearer == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "Token is missing")
				return
			}

			userID, err := cfg.Tokens.Verify(bearer)
			if err != nil {
				// Expired and tampered tokens reject identically on the
				// wire but are logged apart.
				reason := "invalid_token"
				if errors.Is(err, token.ErrExpired) {
					reason = "expired_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusBadRequest, "token is invalid or expired")
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// Returns empty string when the header is absent or has no token segment.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// writeAuthError writes a JSON rejection in the shape clients expect.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
