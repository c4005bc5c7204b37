// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → authorizes, validates, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// What is specific to this app is that every mutating operation on a
// tracked resource is AUDITED: a successful create/update/delete must leave
// behind exactly one audit record. That cross-cutting rule lives in one
// place — the AuditedRunner below — rather than being spread across the
// resource services or pushed into an inheritance chain.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/audit"
	"github.com/sakif/snippetbin/internal/authz"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
	"github.com/sakif/snippetbin/internal/telemetry"
)

// AuditedRunner executes audited mutations. Every create/update/delete on a
// snippet or user in this codebase goes through Run — it is the only path
// that commits a tracked mutation.
type AuditedRunner struct {
	store    repository.Store
	recorder *audit.Recorder
	logger   *slog.Logger
}

func NewAuditedRunner(store repository.Store, recorder *audit.Recorder, logger *slog.Logger) *AuditedRunner {
	return &AuditedRunner{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Run sequences one audited operation:
//
//  1. authorize() — a denial aborts before the store is touched at all:
//     no mutation, no audit row.
//  2. Begin a transaction and run mutate, which performs the resource
//     mutation and returns the target's id. The caller names the action and
//     model explicitly; nothing is sniffed out of the result.
//  3. Append the audit record on the SAME transaction.
//  4. Commit. Only after the commit does the caller observe success, so a
//     client can never see a success response whose audit record is not
//     durably written.
//
// A mutation error rolls back with no audit row; an audit append error
// rolls back the mutation too and surfaces as apperror.ErrAuditWrite. Each
// operation is attempted exactly once — no retries.
func (r *AuditedRunner) Run(
	ctx context.Context,
	actor *authz.Actor,
	authorize func() error,
	action model.Action,
	modelName string,
	mutate func(tx repository.Store) (string, error),
) error {
	if err := authorize(); err != nil {
		r.logger.Warn("audited operation denied",
			slog.String("action", string(action)),
			slog.String("model", modelName),
			slog.String("actor", actorID(actor)),
			slog.String("reason", err.Error()),
		)
		return err
	}

	err := r.store.InTx(ctx, func(tx repository.Store) error {
		id, err := mutate(tx)
		if err != nil {
			return err
		}
		if err := r.recorder.Record(ctx, tx.AuditLogs(), actor, action, modelName, id); err != nil {
			return apperror.AuditWriteFailed(modelName, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	telemetry.AuditedMutationsTotal.WithLabelValues(string(action), modelName).Inc()
	return nil
}

// actorID is a log helper tolerant of anonymous actors.
func actorID(actor *authz.Actor) string {
	if actor == nil {
		return "anonymous"
	}
	return actor.ID
}

// isNotFound reports whether err is the domain not-found error. Services use
// it to decide which errors are worth logging as failures.
func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
