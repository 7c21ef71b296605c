package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/modelkeep/modelkeep/internal/model"
	"github.com/modelkeep/modelkeep/internal/repository"
)

// MetadataStore is the persistence surface MetadataService needs.
type MetadataStore interface {
	CreateMetadata(ctx context.Context, record *model.MetadataRecord) error
	ListMetadataByOwner(ctx context.Context, ownerID string) ([]*model.MetadataRecord, error)
	DeleteMetadata(ctx context.Context, ownerID, id string) (bool, error)
}

// MetadataService handles owner-scoped metadata operations.
type MetadataService struct {
	users   UserStore
	records MetadataStore
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(users UserStore, records MetadataStore) *MetadataService {
	return &MetadataService{users: users, records: records}
}

// List returns all metadata records owned by ownerID, oldest first.
// ErrUserNotFound when the account behind a still-valid token is gone.
func (s *MetadataService) List(ctx context.Context, ownerID string) ([]*model.MetadataRecord, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	records, err := s.records.ListMetadataByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	return records, nil
}

// Upload stores a new metadata record for ownerID.
func (s *MetadataService) Upload(ctx context.Context, ownerID, fileName string, metadataJSON json.RawMessage) (*model.MetadataRecord, error) {
	if fileName == "" || isEmptyJSON(metadataJSON) {
		return nil, ErrMissingFields
	}

	record := &model.MetadataRecord{
		ID:           ulid.Make().String(),
		FileName:     fileName,
		MetadataJSON: metadataJSON,
		OwnerID:      ownerID,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.records.CreateMetadata(ctx, record); err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}

	return record, nil
}

// Delete removes the record with the given id if ownerID owns it.
// ErrMetadataNotFound covers both an unknown id and someone else's record,
// so existence of other users' records is never leaked.
func (s *MetadataService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.records.DeleteMetadata(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	if !deleted {
		return ErrMetadataNotFound
	}
	return nil
}

// isEmptyJSON reports whether the payload carries no content: absent,
// null, false, zero, an empty string, or an empty object/array all count
// as missing for validation purposes.
func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil && len(obj) == 0 {
			return true
		}
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err == nil && len(arr) == 0 {
			return true
		}
	}

	switch string(trimmed) {
	case "null", "false", "0", `""`:
		return true
	}
	return false
}
