// Package dto defines request and response payloads for the HTTP API.
package dto

import (
	"encoding/json"

	"github.com/modelkeep/modelkeep/internal/model"
)

// CredentialsRequest is the body of register and login requests.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the public user summary.
// The password hash is never part of any response.
type LoginResponse struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// UploadMetadataRequest is the body of metadata upload requests.
// Metadata is kept raw; its structure is opaque to the service.
type UploadMetadataRequest struct {
	FileName string          `json:"file_name"`
	Metadata json.RawMessage `json:"metadata"`
}
