package model

import "time"

// Action identifies the kind of mutation an audit record describes.
// String-valued so it reads naturally in logs and API responses.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource type identifiers recorded in AuditLog.ModelName.
// Free text by contract, but in practice always one of these.
const (
	ModelSnippet = "snippet"
	ModelUser    = "user"
)

// AuditLog is one immutable record of a successful mutation.
//
// Append-only: nothing in the application updates or deletes one of these
// rows, and the authorization layer denies audit mutations for every actor,
// staff included. Rows are created exclusively by the audit recorder as a
// side effect of a successful create/update/delete on another entity —
// never directly from a client request.
type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`    // The actor who performed the mutation
	Action    Action    `json:"action"`    // create, update, or delete
	ModelName string    `json:"modelName"` // Target resource type, e.g. "snippet"
	ModelID   string    `json:"modelId"`   // ID of the target record
	CreatedAt time.Time `json:"createdAt"` // Server-assigned, UTC
}
