package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/modelkeep/modelkeep/internal/model"
	"github.com/modelkeep/modelkeep/internal/repository"
	"github.com/modelkeep/modelkeep/internal/testutil"
)

// setupRepo connects to the test database, applies migrations, and clears
// both tables. Skips when DATABASE_URL is not set.
func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	ctx := context.Background()

	if err := repository.RunMigrations(ctx, dbURL); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect to database: %v", err)
	}
	t.Cleanup(repo.Close)

	if _, err := repo.Pool().Exec(ctx, "TRUNCATE metadata, users"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return repo
}

func newTestUser(username string) *model.User {
	return &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakefe",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := newTestUser("alice")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("unexpected username: %q", byID.Username)
	}

	byName, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("ID mismatch: got %q want %q", byName.ID, user.ID)
	}
	if byName.PasswordHash != user.PasswordHash {
		t.Error("password hash did not round-trip")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, newTestUser("alice")); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}

	// The unique constraint rejects the second insert even though it has
	// a different ID.
	err := repo.CreateUser(ctx, newTestUser("alice"))
	if !errors.Is(err, repository.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetUserByID(ctx, uuid.New().String()); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by ID, got %v", err)
	}
	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by username, got %v", err)
	}
}

func newTestRecord(ownerID, fileName string) *model.MetadataRecord {
	return &model.MetadataRecord{
		ID:           ulid.Make().String(),
		FileName:     fileName,
		MetadataJSON: json.RawMessage(`{"accuracy":0.97}`),
		OwnerID:      ownerID,
		UploadedAt:   time.Now().UTC(),
	}
}

func TestMetadataLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	owner := newTestUser("alice")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	record := newTestRecord(owner.ID, "resnet.json")
	if err := repo.CreateMetadata(ctx, record); err != nil {
		t.Fatalf("CreateMetadata: %v", err)
	}

	records, err := repo.ListMetadataByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListMetadataByOwner: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].FileName != "resnet.json" {
		t.Errorf("unexpected file name: %q", records[0].FileName)
	}

	deleted, err := repo.DeleteMetadata(ctx, owner.ID, record.ID)
	if err != nil {
		t.Fatalf("DeleteMetadata: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to affect one row")
	}

	records, err = repo.ListMetadataByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListMetadataByOwner after delete: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records after delete, got %d", len(records))
	}
}

func TestDeleteMetadata_OwnerScoped(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	alice := newTestUser("alice")
	bob := newTestUser("bob")
	if err := repo.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	if err := repo.CreateUser(ctx, bob); err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	record := newTestRecord(alice.ID, "alice.json")
	if err := repo.CreateMetadata(ctx, record); err != nil {
		t.Fatalf("CreateMetadata: %v", err)
	}

	// Bob cannot delete Alice's record.
	deleted, err := repo.DeleteMetadata(ctx, bob.ID, record.ID)
	if err != nil {
		t.Fatalf("DeleteMetadata as bob: %v", err)
	}
	if deleted {
		t.Fatal("delete must be owner-scoped")
	}

	// And Bob's listing never contains it.
	records, err := repo.ListMetadataByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListMetadataByOwner bob: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected bob to own nothing, got %d records", len(records))
	}
}

func TestListMetadata_InsertionOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	owner := newTestUser("alice")
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	base := time.Now().UTC()
	names := []string{"first.json", "second.json", "third.json"}
	for i, name := range names {
		record := newTestRecord(owner.ID, name)
		record.UploadedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.CreateMetadata(ctx, record); err != nil {
			t.Fatalf("CreateMetadata %s: %v", name, err)
		}
	}

	records, err := repo.ListMetadataByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListMetadataByOwner: %v", err)
	}
	if len(records) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(records))
	}
	for i, name := range names {
		if records[i].FileName != name {
			t.Errorf("position %d: got %q want %q", i, records[i].FileName, name)
		}
	}
}
