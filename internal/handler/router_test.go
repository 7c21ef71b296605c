package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/modelkeep/modelkeep/internal/middleware"
	"github.com/modelkeep/modelkeep/internal/service"
	"github.com/modelkeep/modelkeep/internal/testutil"
	"github.com/modelkeep/modelkeep/internal/token"
)

// newTestRouter wires the full route tree against an in-memory store so
// handler tests exercise the same path a real request takes, auth
// middleware included.
func newTestRouter(t *testing.T) (*chi.Mux, *testutil.MemStore) {
	t.Helper()

	store := testutil.NewMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService([]byte("handler-test-secret"), time.Hour)

	authHandler := NewAuthHandler(service.NewAuthService(store, tokens), logger)
	metadataHandler := NewMetadataHandler(service.NewMetadataService(store, store), logger)
	h := New()

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{Logger: logger, Tokens: tokens}))
		r.Get("/metadata", metadataHandler.List)
		r.Post("/metadata", metadataHandler.Create)
		r.Delete("/metadata/{id}", metadataHandler.Delete)
	})
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

// registerAndLogin creates a user via the API and returns a valid token.
func registerAndLogin(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", creds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: status %d body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}
