// Package audit owns the creation path for audit records. No other package
// constructs a model.AuditLog — resource services hand the recorder an
// actor, an action, and the target's type name and id, and the recorder
// appends exactly one row.
package audit

import (
	"context"
	"log/slog"

	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Recorder appends immutable audit records.
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record appends one audit entry through the given repository, which the
// audited-operation runner binds to the same transaction as the mutation
// being recorded. It must only be called after that mutation has been
// applied; callers never invoke it for failed or denied operations.
//
// An append failure is an integrity failure for the whole operation — the
// caller's transaction rolls back, taking the mutation with it.
func (r *Recorder) Record(ctx context.Context, logs repository.AuditLogRepository, actor *authz.Actor, action model.Action, modelName, modelID string) error {
	entry := &model.AuditLog{
		UserID:    actor.ID,
		Action:    action,
		ModelName: modelName,
		ModelID:   modelID,
	}

	if err := logs.Append(ctx, entry); err != nil {
		r.logger.Error("audit append failed",
			slog.String("actor", actor.ID),
			slog.String("action", string(action)),
			slog.String("model", modelName),
			slog.String("modelId", modelID),
			slog.String("error", err.Error()),
		)
		return err
	}

	r.logger.Info("audit entry recorded",
		slog.String("id", entry.ID),
		slog.String("actor", actor.ID),
		slog.String("action", string(action)),
		slog.String("model", modelName),
		slog.String("modelId", modelID),
	)

	return nil
}
