// Package transport defines the push/pull port used to exchange index
// artifacts between a local working copy and a shared destination (a
// teammate's machine, a CI artifact bucket, a NATS object store).
package transport

import "context"

// Transport moves a named blob of bytes to and from a remote destination.
// Implementations need not be transactional across multiple keys; callers
// push/pull one artifact bundle (typically a tarball of .kdd-index/) at a
// time.
type Transport interface {
	// Push uploads data under key, overwriting any existing object.
	Push(ctx context.Context, key string, data []byte) error
	// Pull downloads the object stored under key.
	Pull(ctx context.Context, key string) ([]byte, error)
}
