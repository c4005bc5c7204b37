package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// AuditLogService is the read-only surface over the audit trail. It has no
// create, update, or delete methods at all — and even if one were added by
// mistake, authz.CanMutateAuditLogs denies every actor, so the gap is
// enforced by the authorization layer rather than by omission.
type AuditLogService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewAuditLogService(store repository.Store, logger *slog.Logger) *AuditLogService {
	return &AuditLogService{
		store:  store,
		logger: logger,
	}
}

// List returns audit records in creation order. Staff only: non-staff
// actors get a denial, never a filtered empty result.
func (s *AuditLogService) List(ctx context.Context, actor *authz.Actor, limit, offset int) ([]model.AuditLog, error) {
	if err := authz.CanListAuditLogs(actor); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}

	entries, err := s.store.AuditLogs().List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list audit logs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing audit logs: %w", err)
	}
	return entries, nil
}
