package eventlog

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable wraps every backend failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidKey is returned for namespaces or ids that cannot form a key.
	ErrInvalidKey = errors.New("invalid entity key")
)

// Store is an append-only log of opaque records per entity.
type Store interface {
	// Append adds one record at the end of the entity's log. It either
	// fully succeeds or leaves the log unchanged.
	Append(ctx context.Context, key EntityKey, record []byte) error
	// ReadAll returns every record of the entity in append order. Unknown
	// entities yield an empty slice.
	ReadAll(ctx context.Context, key EntityKey) ([][]byte, error)
	// ListKeys returns the key of every entity in namespace. Entities
	// appended concurrently may or may not be included.
	ListKeys(ctx context.Context, namespace string) ([]EntityKey, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
