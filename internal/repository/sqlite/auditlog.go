package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// compile-time check that *auditLogRepo implements repository.AuditLogRepository
var _ repository.AuditLogRepository = (*auditLogRepo)(nil)

// auditLogRepo only knows how to INSERT and SELECT. The absence of update
// and delete here mirrors the interface: audit rows are immutable.
type auditLogRepo struct {
	q querier
}

// Append inserts one audit record with a server-assigned timestamp.
func (r *auditLogRepo) Append(ctx context.Context, entry *model.AuditLog) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_id, action, model_name, model_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		string(entry.Action),
		entry.ModelName,
		entry.ModelID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending audit log: %w", err)
	}

	return nil
}

// List returns audit records in creation order. The id tie-break keeps the
// order deterministic when two records share a timestamp; xid values sort
// by creation time, so this preserves append order.
func (r *auditLogRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.AuditLog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, action, model_name, model_id, created_at
		 FROM audit_logs
		 ORDER BY created_at, id
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditLog, 0, limit)
	for rows.Next() {
		var e model.AuditLog
		var action string
		if err := rows.Scan(
			&e.ID, &e.UserID, &action, &e.ModelName, &e.ModelID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning audit log row: %w", err)
		}
		e.Action = model.Action(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating audit logs: %w", err)
	}

	return entries, nil
}
