// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/modelkeep/modelkeep/internal/model"
	"github.com/modelkeep/modelkeep/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// MemStore is an in-memory stand-in for the repository, satisfying the
// service layer's UserStore and MetadataStore interfaces. It returns the
// same sentinel errors the real repository does.
type MemStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	records []*model.MetadataRecord
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]*model.User)}
}

// CreateUser stores the user, enforcing username uniqueness.
func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetUserByUsername looks up a user by username.
func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByID looks up a user by ID.
func (s *MemStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// DeleteUser removes a user, for tests exercising dangling-token behavior.
func (s *MemStore) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// CreateMetadata appends a metadata record in insertion order.
func (s *MemStore) CreateMetadata(ctx context.Context, record *model.MetadataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records = append(s.records, &copied)
	return nil
}

// ListMetadataByOwner returns records owned by ownerID in insertion order.
func (s *MemStore) ListMetadataByOwner(ctx context.Context, ownerID string) ([]*model.MetadataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.MetadataRecord, 0)
	for _, r := range s.records {
		if r.OwnerID == ownerID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

// DeleteMetadata removes the record if ownerID owns it.
func (s *MemStore) DeleteMetadata(ctx context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id && r.OwnerID == ownerID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
