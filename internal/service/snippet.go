package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Validation constants for snippets.
const (
	MaxTitleLength   = 100
	MaxCodeLength    = 100000 // ~100KB of code
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SnippetInput carries the client-supplied fields for create and update.
// There is deliberately no owner field here: ownership always comes from
// the acting user, never from input.
type SnippetInput struct {
	Title    string
	Code     string
	Language string
	Style    string
	Linenos  bool
}

// SnippetService handles business logic for code snippets: open reads,
// owner-gated audited mutations.
type SnippetService struct {
	store  repository.Store
	runner *AuditedRunner
	logger *slog.Logger
}

func NewSnippetService(store repository.Store, runner *AuditedRunner, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		store:  store,
		runner: runner,
		logger: logger,
	}
}

// validate enforces the snippet business rules and fills in defaults.
func (in *SnippetInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)

	if strings.TrimSpace(in.Code) == "" {
		return apperror.ValidationFailed("code", "snippet code is required")
	}
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Code) > MaxCodeLength {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	if strings.TrimSpace(in.Language) == "" {
		in.Language = model.DefaultLanguage
	}
	if strings.TrimSpace(in.Style) == "" {
		in.Style = model.DefaultStyle
	}
	return nil
}

// Create validates and saves a new snippet, owned by the acting user.
// Anonymous actors are refused before the store is touched.
func (s *SnippetService) Create(ctx context.Context, actor *authz.Actor, in SnippetInput) (*model.Snippet, error) {
	snippet := &model.Snippet{}

	err := s.runner.Run(ctx, actor,
		func() error { return authz.CanCreateSnippet(actor) },
		model.ActionCreate, model.ModelSnippet,
		func(tx repository.Store) (string, error) {
			if err := in.validate(); err != nil {
				return "", err
			}
			snippet.Title = in.Title
			snippet.Code = in.Code
			snippet.Language = in.Language
			snippet.Style = in.Style
			snippet.Linenos = in.Linenos
			snippet.OwnerID = actor.ID // owner is always the actor, input is ignored

			if err := tx.Snippets().Create(ctx, snippet); err != nil {
				return "", fmt.Errorf("creating snippet: %w", err)
			}
			return snippet.ID, nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", actor.ID),
	)
	return snippet, nil
}

// GetByID retrieves a snippet by its ID. Open to everyone, anonymous
// included.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	return s.store.Snippets().GetByID(ctx, id)
}

// List retrieves snippets with pagination, newest first. Open to everyone.
func (s *SnippetService) List(ctx context.Context, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.store.Snippets().List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update replaces the mutable fields of an existing snippet. Only the owner
// may update; the ownership check needs the stored record, so the snippet
// is fetched first and the denial (if any) still happens before any
// mutation.
func (s *SnippetService) Update(ctx context.Context, actor *authz.Actor, id string, in SnippetInput) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.store.Snippets().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.runner.Run(ctx, actor,
		func() error { return authz.CanMutateSnippet(actor, snippet) },
		model.ActionUpdate, model.ModelSnippet,
		func(tx repository.Store) (string, error) {
			if err := in.validate(); err != nil {
				return "", err
			}
			snippet.Title = in.Title
			snippet.Code = in.Code
			snippet.Language = in.Language
			snippet.Style = in.Style
			snippet.Linenos = in.Linenos

			if err := tx.Snippets().Update(ctx, snippet); err != nil {
				return "", fmt.Errorf("updating snippet %s: %w", id, err)
			}
			return snippet.ID, nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))
	return snippet, nil
}

// Delete hard-deletes a snippet. Owner only.
func (s *SnippetService) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.store.Snippets().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.runner.Run(ctx, actor,
		func() error { return authz.CanMutateSnippet(actor, snippet) },
		model.ActionDelete, model.ModelSnippet,
		func(tx repository.Store) (string, error) {
			if err := tx.Snippets().Delete(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		},
	)
	if err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}
