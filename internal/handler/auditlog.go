package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/service"
)

// AuditLogHandler exposes the audit trail. Listing is the ONLY route: no
// create, update, or delete handler exists for audit records, and the
// authorization layer independently denies audit mutations for every actor,
// so the append-only rule does not rest on routing alone.
type AuditLogHandler struct {
	auditLogs *service.AuditLogService
	logger    *slog.Logger
}

func NewAuditLogHandler(auditLogs *service.AuditLogService, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{auditLogs: auditLogs, logger: logger}
}

// HandleList returns audit records in creation order. Staff only.
//
// HTTP: GET /api/audit-log
func (h *AuditLogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	entries, err := h.auditLogs.List(r.Context(), auth.ActorFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
