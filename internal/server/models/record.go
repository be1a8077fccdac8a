package models

import "time"

// Record describes one uploaded file's metadata. The file contents live in
// object storage under StoredName; everything else is record state.
type Record struct {
	// ID is unique, assigned at creation, immutable.
	ID string
	// OwnerID references the owning User. Set once, never changed.
	OwnerID string

	// StoredName is the opaque object-storage key of the contents.
	StoredName string
	// OriginalName is the display name supplied by the uploader.
	OriginalName string

	UploadDate time.Time

	// Metadata is an open, owner-supplied key/value map. It is stored and
	// returned as-is, never validated or interpreted.
	Metadata map[string]any

	// ShareToken and ShareTokenExpires are both set or both nil. The pair
	// is overwritten as a whole on every issue and only read through the
	// expiry-aware token lookup.
	ShareToken        *string
	ShareTokenExpires *time.Time
}

// ShareActive reports whether the record carries a share token that is
// still valid at instant now. Expiry is strict: a token is dead at its
// exact expiry time.
func (r *Record) ShareActive(now time.Time) bool {
	return r.ShareToken != nil && r.ShareTokenExpires != nil && now.Before(*r.ShareTokenExpires)
}
