// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Default rendering options applied when a snippet is created without them.
const (
	DefaultLanguage = "plaintext"
	DefaultStyle    = "monokai"
)

// Snippet represents a saved code snippet.
//
// The `json:"..."` struct tags tell encoding/json how to serialize this
// struct. OwnerID is the internal ID of the user who created the snippet;
// it is assigned by the server on create and never taken from client input.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`    // Optional display title
	Code      string    `json:"code"`     // The snippet body (required)
	Language  string    `json:"language"` // Lexer name for highlighting, e.g. "go"
	Style     string    `json:"style"`    // Highlight colour scheme, e.g. "monokai"
	Linenos   bool      `json:"linenos"`  // Render line numbers in highlighted output
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
