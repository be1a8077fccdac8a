// Package blob abstracts opaque byte storage for record contents.
// Callers see stored names only; key layout and backend are private here.
package blob

import (
	"context"
	"io"
)

// Store is the contract the record services depend on.
type Store interface {
	// Put stores the payload and returns the generated stored name.
	Put(ctx context.Context, payload io.Reader) (string, error)

	// Get opens the payload for the given stored name, returning
	// common.ErrorNotFound when the backend has no such object.
	Get(ctx context.Context, storedName string) (io.ReadCloser, error)

	// Delete removes the object. The boolean reports whether it existed.
	Delete(ctx context.Context, storedName string) (bool, error)
}
