// Package blob stores uploaded binary objects (item and category
// photos) and resolves stable URLs for stored references.
package blob

import (
	"context"
	"io"
)

// Store is the object storage surface screens upload photos through.
// Upload writes the object under ref and returns the same ref once the
// bytes are durable; URL resolves a previously returned ref to a
// displayable location.
type Store interface {
	Upload(ctx context.Context, ref string, r io.Reader) (string, error)
	URL(ctx context.Context, ref string) (string, error)
}
