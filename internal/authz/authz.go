// Package authz is the authorization engine: pure decision functions over
// an actor, a resource, and an operation kind.
//
// The decisions here are deliberately plain functions instead of middleware
// or embedded base behaviour. Each service composes exactly the checks it
// needs and runs them before any store mutation — a denial means the store
// is never touched and no audit record is written. Keeping the decisions in
// one small package makes that ordering guarantee easy to verify.
//
// Capability set:
//   - owner-or-read-only  (snippets)
//   - staff-or-read-only  (user create/delete)
//   - staff-gated reads   (audit listing)
//   - no writes for anyone (audit mutations)
package authz

import (
	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
)

// Actor is the identity performing an operation. A nil *Actor means the
// request is anonymous. Anonymous actors may read anything guarded only by
// ownership rules, and may mutate nothing.
type Actor struct {
	ID       string
	Username string
	IsStaff  bool
}

// CanCreateSnippet allows any authenticated actor to create a snippet.
// The creator becomes the owner; there is nothing else to check.
func CanCreateSnippet(actor *Actor) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required to create snippets")
	}
	return nil
}

// CanMutateSnippet allows update/delete only for the snippet's owner.
// Reads are open to everyone and never pass through here.
func CanMutateSnippet(actor *Actor, snippet *model.Snippet) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required to modify snippets")
	}
	if actor.ID != snippet.OwnerID {
		return apperror.Forbidden("only the snippet owner may modify it")
	}
	return nil
}

// CanWriteUsers allows user create/delete only for staff actors.
func CanWriteUsers(actor *Actor) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required to manage users")
	}
	if !actor.IsStaff {
		return apperror.Forbidden("only staff may manage users")
	}
	return nil
}

// CanListAuditLogs gates audit listing to staff. Non-staff actors receive a
// denial, not an empty result — the existence of the trail is not hidden,
// its contents are.
func CanListAuditLogs(actor *Actor) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required to read the audit log")
	}
	if !actor.IsStaff {
		return apperror.Forbidden("only staff may read the audit log")
	}
	return nil
}

// CanMutateAuditLogs always denies. The audit trail is append-only and the
// only append path is the recorder; this check exists so the rule is
// enforced by the authorization layer itself, not merely by the absence of
// a route. Staff status does not override it.
func CanMutateAuditLogs(actor *Actor) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required")
	}
	return apperror.Forbidden("audit records are immutable")
}
