// Package repository defines the storage contracts consumed by the service
// layer. The service layer depends on these interfaces only — never on the
// concrete sqlite implementation — so storage can be swapped (or mocked in
// tests) without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/snippetbin/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserListOptions extends pagination with the deactivated-user filter.
// IncludeDeactivated is resolved by the service layer (staff actor plus the
// explicit flag); the repository just applies it.
type UserListOptions struct {
	ListOptions
	IncludeDeactivated bool
}

type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, opts UserListOptions) ([]model.User, error)
	// Deactivate is the soft delete: it persists is_active=false and nothing
	// else. The row is never removed.
	Deactivate(ctx context.Context, id string) error
}

// AuditLogRepository is append-only by contract: there is no update or
// delete method to call. Append is invoked solely by the audit recorder.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, opts ListOptions) ([]model.AuditLog, error)
}

// Store bundles the per-resource repositories with transaction control.
//
// InTx runs fn against a Store whose repositories all share one database
// transaction. If fn returns an error the transaction is rolled back,
// otherwise it is committed. This is how the audited-operation runner makes
// "mutation + audit append" atomic: both writes go through the same
// transactional Store. Calling InTx on a Store that is already
// transactional reuses the open transaction rather than nesting.
type Store interface {
	Snippets() SnippetRepository
	Users() UserRepository
	AuditLogs() AuditLogRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
