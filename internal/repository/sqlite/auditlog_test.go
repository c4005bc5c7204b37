package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

func appendTestEntry(t *testing.T, db *DB, userID string, action model.Action, modelID string) *model.AuditLog {
	t.Helper()
	entry := &model.AuditLog{
		UserID:    userID,
		Action:    action,
		ModelName: model.ModelSnippet,
		ModelID:   modelID,
	}
	if err := db.AuditLogs().Append(context.Background(), entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return entry
}

func TestAuditLogAppend(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)

	entry := appendTestEntry(t, db, actor.ID, model.ActionCreate, "s-1")

	if entry.ID == "" {
		t.Error("Append() did not set entry.ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Append() did not set entry.CreatedAt")
	}
}

func TestAuditLogList_CreationOrder(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)

	first := appendTestEntry(t, db, actor.ID, model.ActionCreate, "s-1")
	second := appendTestEntry(t, db, actor.ID, model.ActionUpdate, "s-1")
	time.Sleep(2 * time.Millisecond)
	third := appendTestEntry(t, db, actor.ID, model.ActionDelete, "s-1")

	entries, err := db.AuditLogs().List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantOrder := []string{first.ID, second.ID, third.ID}
	for i, want := range wantOrder {
		if entries[i].ID != want {
			t.Fatalf("entry %d = %s, want %s (creation order)", i, entries[i].ID, want)
		}
	}

	// Timestamps never decrease in creation order.
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.Before(entries[i-1].CreatedAt) {
			t.Errorf("timestamps must be non-decreasing: entry %d is before entry %d", i, i-1)
		}
	}
}

func TestAuditLogList_RoundTripsFields(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)
	appendTestEntry(t, db, actor.ID, model.ActionDelete, "target-42")

	entries, err := db.AuditLogs().List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.UserID != actor.ID {
		t.Errorf("UserID = %q, want %q", e.UserID, actor.ID)
	}
	if e.Action != model.ActionDelete {
		t.Errorf("Action = %q, want %q", e.Action, model.ActionDelete)
	}
	if e.ModelName != model.ModelSnippet {
		t.Errorf("ModelName = %q, want %q", e.ModelName, model.ModelSnippet)
	}
	if e.ModelID != "target-42" {
		t.Errorf("ModelID = %q, want %q", e.ModelID, "target-42")
	}
}
