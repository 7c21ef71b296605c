package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("super-secret"), time.Hour)

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("user ID mismatch: got %q want %q", got, "user-123")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("secret"), -1*time.Second)

	tok, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService([]byte("right-secret"), time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewService([]byte("wrong-secret"), time.Hour).Verify(tok)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewService([]byte("k"), time.Hour).Verify("not.a.jwt")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerify_MissingUserID(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("k"), time.Hour)

	tok, err := svc.Issue("")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty user ID, got %v", err)
	}
}
