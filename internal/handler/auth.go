package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelkeep/modelkeep/internal/handler/dto"
	"github.com/modelkeep/modelkeep/internal/service"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			writeMessage(w, http.StatusBadRequest, "username and password required")
		case errors.Is(err, service.ErrUsernameTaken):
			writeMessage(w, http.StatusConflict, "Username already exists")
		default:
			h.logger.Error("internal_error", "error", err)
			writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		}
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Username and password required")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			writeMessage(w, http.StatusBadRequest, "Username and password required")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error("internal_error", "error", err)
			writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		}
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  user.Summary(),
	})
}
