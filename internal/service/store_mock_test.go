package service

// In-memory repository.Store used by the service tests. Like the real
// sqlite store it hands out per-resource views, and its InTx snapshots the
// data so a callback error "rolls back" — which is exactly what the
// audit-failure tests need to observe.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/audit"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

var errAuditAppendFailed = errors.New("mock: audit append failed")

type memStore struct {
	snippets map[string]model.Snippet
	users    map[string]model.User
	audits   []model.AuditLog
	nextID   int

	// failAuditAppend makes the next audit append fail, simulating a
	// broken audit store underneath a healthy mutation.
	failAuditAppend bool
}

func newMemStore() *memStore {
	return &memStore{
		snippets: make(map[string]model.Snippet),
		users:    make(map[string]model.User),
	}
}

func (m *memStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) Snippets() repository.SnippetRepository { return &memSnippetRepo{m} }
func (m *memStore) Users() repository.UserRepository       { return &memUserRepo{m} }
func (m *memStore) AuditLogs() repository.AuditLogRepository {
	return &memAuditLogRepo{m}
}

func (m *memStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	snippets := maps.Clone(m.snippets)
	users := maps.Clone(m.users)
	audits := slices.Clone(m.audits)

	if err := fn(m); err != nil {
		m.snippets = snippets
		m.users = users
		m.audits = audits
		return err
	}
	return nil
}

type memSnippetRepo struct{ s *memStore }

func (r *memSnippetRepo) Create(_ context.Context, snippet *model.Snippet) error {
	snippet.ID = r.s.genID("snip")
	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	r.s.snippets[snippet.ID] = *snippet
	return nil
}

func (r *memSnippetRepo) GetByID(_ context.Context, id string) (*model.Snippet, error) {
	s, ok := r.s.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	return &s, nil
}

func (r *memSnippetRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Snippet, error) {
	out := make([]model.Snippet, 0, len(r.s.snippets))
	for _, s := range r.s.snippets {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSnippetRepo) Update(_ context.Context, snippet *model.Snippet) error {
	if _, ok := r.s.snippets[snippet.ID]; !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	snippet.UpdatedAt = time.Now().UTC()
	r.s.snippets[snippet.ID] = *snippet
	return nil
}

func (r *memSnippetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.snippets[id]; !ok {
		return apperror.NotFound("snippet", id)
	}
	delete(r.s.snippets, id)
	return nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", fmt.Sprintf("username %q already taken", user.Username))
		}
	}
	user.ID = r.s.genID("user")
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (r *memUserRepo) List(_ context.Context, opts repository.UserListOptions) ([]model.User, error) {
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if !u.IsActive && !opts.IncludeDeactivated {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.s.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

type memAuditLogRepo struct{ s *memStore }

func (r *memAuditLogRepo) Append(_ context.Context, entry *model.AuditLog) error {
	if r.s.failAuditAppend {
		return errAuditAppendFailed
	}
	entry.ID = r.s.genID("audit")
	entry.CreatedAt = time.Now().UTC()
	r.s.audits = append(r.s.audits, *entry)
	return nil
}

func (r *memAuditLogRepo) List(_ context.Context, _ repository.ListOptions) ([]model.AuditLog, error) {
	return slices.Clone(r.s.audits), nil
}

// Shared test fixtures.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRunner(store *memStore) *AuditedRunner {
	logger := testLogger()
	return NewAuditedRunner(store, audit.NewRecorder(logger), logger)
}

// addUser seeds a user directly into the mock store, bypassing the audited
// path — test setup, not an operation under test.
func addUser(t *testing.T, store *memStore, username string, staff bool) *authz.Actor {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "unused",
		IsActive:     true,
		IsStaff:      staff,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return &authz.Actor{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff}
}

// requireAuditCount fails the test unless the trail holds exactly n entries.
func requireAuditCount(t *testing.T, store *memStore, n int) []model.AuditLog {
	t.Helper()
	if len(store.audits) != n {
		t.Fatalf("expected %d audit entries, got %d", n, len(store.audits))
	}
	return store.audits
}

// requireLastAudit checks the most recent audit entry.
func requireLastAudit(t *testing.T, store *memStore, actorID string, action model.Action, modelName, modelID string) {
	t.Helper()
	if len(store.audits) == 0 {
		t.Fatal("expected at least one audit entry")
	}
	last := store.audits[len(store.audits)-1]
	if last.UserID != actorID {
		t.Errorf("audit UserID = %q, want %q", last.UserID, actorID)
	}
	if last.Action != action {
		t.Errorf("audit Action = %q, want %q", last.Action, action)
	}
	if last.ModelName != modelName {
		t.Errorf("audit ModelName = %q, want %q", last.ModelName, modelName)
	}
	if last.ModelID != modelID {
		t.Errorf("audit ModelID = %q, want %q", last.ModelID, modelID)
	}
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordService()
}
