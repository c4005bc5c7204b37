// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// WHY PasswordHash string with json:"-"?
// The bcrypt hash must never leave the server. The `json:"-"` tag tells
// encoding/json to skip the field entirely, so no handler can leak it by
// accident — even one that marshals the whole struct.
//
// WHY IsActive INSTEAD OF DELETING ROWS?
// Users are soft-deleted: "deleting" a user flips IsActive to false and
// keeps the row. Audit records reference user IDs, so removing the row
// would orphan the trail. A deactivated user is hidden from default
// listings but still readable by ID.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	IsActive     bool      `json:"isActive"`
	IsStaff      bool      `json:"isStaff"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
