// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the local identity cache for an externally authenticated caller.
// A row is created lazily the first time an external id is seen and is
// read-only to the rest of the system afterwards.
type User struct {
	// ID is the internal user id; owner of records.
	ID string
	// ExternalID is the identity provider's stable subject id.
	ExternalID string
	// Email and Name are copied from the identity token claims, if present.
	Email string
	Name  string

	CreatedAt time.Time
}
