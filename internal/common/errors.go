// Package common defines shared constants and sentinel errors used across
// the RecordVault server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound deliberately covers both
	// "no such record" and "record owned by someone else": the two cases
	// must stay indistinguishable to callers.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")

	// Upload with an empty payload.
	ErrorMissingPayload = errors.New("no file uploaded")

	// Share-token resolution failure. Unknown and expired tokens are
	// merged into a single error so a caller cannot probe which it was.
	ErrorInvalidOrExpiredToken = errors.New("invalid or expired token")
)
