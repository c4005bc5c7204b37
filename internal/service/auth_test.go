package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/auth"
)

func newTestAuthService(t *testing.T, store *memStore) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}
	return NewAuthService(store, tokens, testPasswords(), testLogger())
}

// seedCredentials creates a user through the staff-gated service so the
// stored hash is the real bcrypt output.
func seedCredentials(t *testing.T, store *memStore, username, password string) string {
	t.Helper()
	staff := addUser(t, store, "admin-"+username, true)
	users := newTestUserService(store)
	user, err := users.Create(context.Background(), staff, UserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("seeding credentials: %v", err)
	}
	return user.ID
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := newTestAuthService(t, store)
	userID := seedCredentials(t, store, "alice", "correct horse battery")

	token, err := svc.Login(context.Background(), "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	tokens, err := auth.NewTokenService("test-secret-test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}
	subject, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if subject != userID {
		t.Errorf("token subject = %q, want %q", subject, userID)
	}
}

func TestLogin_Failures(t *testing.T) {
	store := newMemStore()
	svc := newTestAuthService(t, store)
	seedCredentials(t, store, "alice", "correct horse battery")

	users := newTestUserService(store)
	staff := addUser(t, store, "admin2", true)
	deactivatedID := seedCredentials(t, store, "bob", "another long password")
	if err := users.Delete(context.Background(), staff, deactivatedID); err != nil {
		t.Fatalf("deactivating bob: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "correct horse battery"},
		{"wrong password", "alice", "wrong password here"},
		{"deactivated account", "bob", "another long password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
