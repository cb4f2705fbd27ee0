// Package models contains domain models for the response wrapper service.
package models

// User represents an account allowed to call the API. Rows are created
// out-of-band; there is no registration endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	APIKey   string `json:"-"` // never serialized
}
