package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// compile-time check that *userRepo implements repository.UserRepository
var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	q querier
}

// Create inserts a new user. A UNIQUE violation on username is translated
// to the domain Conflict error so the handler can return 409 instead of a
// bare 500.
func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_active, is_staff, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations by message, not a
		// typed error; matching on "UNIQUE" covers the username constraint.
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperror.Conflict("user", fmt.Sprintf("username %q already taken", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

const userColumns = `id, username, email, password_hash, is_active, is_staff, created_at, updated_at`

func scanUser(row *sql.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// GetByID retrieves a user by internal ID. Deactivated users are still
// returned — soft delete hides them from listings, not from direct lookup.
func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by username. Used by credential login.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %q: %w", username, err)
	}

	return &u, nil
}

// List retrieves users with pagination. Deactivated users are excluded
// unless opts.IncludeDeactivated is set — the service layer only sets that
// for a staff actor who asked for it explicitly.
func (r *userRepo) List(ctx context.Context, opts repository.UserListOptions) ([]model.User, error) {
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

	query := `SELECT ` + userColumns + ` FROM users`
	if !opts.IncludeDeactivated {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at, id LIMIT ? OFFSET ?`

	rows, err := r.q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Deactivate is the soft delete: it flips is_active to false and touches
// updated_at. Only those two columns change — the row, its credentials, and
// its audit references all stay intact.
func (r *userRepo) Deactivate(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deactivating user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
