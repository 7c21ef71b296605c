package handler

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegister_Success(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "",
		map[string]string{"username": "alice", "password": "pw123"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "User registered successfully" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}

func TestRegister_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"no username", map[string]string{"password": "pw123"}},
		{"no password", map[string]string{"username": "alice"}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router, _ := newTestRouter(t)

	creds := map[string]string{"username": "alice", "password": "pw123"}

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", creds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", creds)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["message"] != "Username already exists" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}

func TestLogin_Success(t *testing.T) {
	router, _ := newTestRouter(t)

	creds := map[string]string{"username": "alice", "password": "pw123"}
	doJSON(t, router, http.MethodPost, "/auth/register", "", creds)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID        string `json:"id"`
			Username  string `json:"username"`
			CreatedAt string `json:"created_at"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)

	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.ID == "" || resp.User.Username != "alice" || resp.User.CreatedAt == "" {
		t.Errorf("incomplete user summary: %+v", resp.User)
	}

	// The password hash must never leak into a response.
	if strings.Contains(rec.Body.String(), "$2") {
		t.Error("response appears to contain a bcrypt hash")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/auth/register", "",
		map[string]string{"username": "alice", "password": "pw123"})

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "alice", "password": "wrong"})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	if strings.Contains(rec.Body.String(), "token") {
		t.Error("failed login must not include a token")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "nobody", "password": "pw123"})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "",
		map[string]string{"username": "alice"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
