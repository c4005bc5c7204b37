package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// compile-time check that *snippetRepo implements repository.SnippetRepository
var _ repository.SnippetRepository = (*snippetRepo)(nil)

type snippetRepo struct {
	q querier
}

// Create inserts a new snippet.
//
// IDs come from rs/xid: 20 URL-safe characters, sortable by creation time.
// The pointer receiver matters — after Create returns, the caller's snippet
// carries the generated ID and timestamps.
func (r *snippetRepo) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO snippets (id, title, code, language, style, linenos, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Style,
		snippet.Linenos,
		snippet.OwnerID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet. sql.ErrNoRows is translated to the
// domain NotFound error so the handler can return 404.
func (r *snippetRepo) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet

	err := r.q.QueryRowContext(ctx,
		`SELECT id, title, code, language, style, linenos, owner_id, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.Title,
		&s.Code,
		&s.Language,
		&s.Style,
		&s.Linenos,
		&s.OwnerID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// List retrieves snippets with pagination, newest first.
func (r *snippetRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, code, language, style, linenos, owner_id, created_at, updated_at
		 FROM snippets
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Code, &s.Language, &s.Style, &s.Linenos,
			&s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update persists the mutable fields of an existing snippet. RowsAffected
// distinguishes "updated" from "no such row" in a single statement.
func (r *snippetRepo) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now().UTC()

	result, err := r.q.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, language = ?, style = ?, linenos = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Language,
		snippet.Style,
		snippet.Linenos,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet. Snippets are hard-deleted — unlike users, there
// is no soft-delete lifecycle for them.
func (r *snippetRepo) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
