package authz

import (
	"errors"
	"testing"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
)

var (
	owner    = &Actor{ID: "u-owner", Username: "alice"}
	stranger = &Actor{ID: "u-other", Username: "bob"}
	staff    = &Actor{ID: "u-staff", Username: "carol", IsStaff: true}
)

func TestCanCreateSnippet(t *testing.T) {
	if err := CanCreateSnippet(owner); err != nil {
		t.Errorf("authenticated actor should create snippets, got %v", err)
	}
	if err := CanCreateSnippet(nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("anonymous create should be unauthorized, got %v", err)
	}
}

func TestCanMutateSnippet(t *testing.T) {
	snippet := &model.Snippet{ID: "s1", OwnerID: owner.ID}

	tests := []struct {
		name    string
		actor   *Actor
		wantErr error
	}{
		{"owner may mutate", owner, nil},
		{"non-owner denied", stranger, apperror.ErrForbidden},
		{"staff is not owner", staff, apperror.ErrForbidden},
		{"anonymous unauthorized", nil, apperror.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanMutateSnippet(tt.actor, snippet)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("want allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCanWriteUsers(t *testing.T) {
	if err := CanWriteUsers(staff); err != nil {
		t.Errorf("staff should manage users, got %v", err)
	}
	if err := CanWriteUsers(owner); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("non-staff should be forbidden, got %v", err)
	}
	if err := CanWriteUsers(nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("anonymous should be unauthorized, got %v", err)
	}
}

func TestCanListAuditLogs(t *testing.T) {
	if err := CanListAuditLogs(staff); err != nil {
		t.Errorf("staff should read the audit log, got %v", err)
	}
	if err := CanListAuditLogs(stranger); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("non-staff should get a denial, got %v", err)
	}
	if err := CanListAuditLogs(nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("anonymous should be unauthorized, got %v", err)
	}
}

// Nobody — staff included — may mutate audit records.
func TestCanMutateAuditLogs(t *testing.T) {
	for _, actor := range []*Actor{owner, stranger, staff} {
		if err := CanMutateAuditLogs(actor); !errors.Is(err, apperror.ErrForbidden) {
			t.Errorf("actor %s: want forbidden, got %v", actor.ID, err)
		}
	}
	if err := CanMutateAuditLogs(nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("anonymous: want unauthorized, got %v", err)
	}
}
