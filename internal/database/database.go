package database

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
)

// Standard errors for storage operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDecode indicates a record file exists but could not be decoded.
	ErrDecode = errors.New("record decode failed")

	// ErrStorage indicates a filesystem failure (directory creation, read, write, rename).
	ErrStorage = errors.New("storage error")

	// ErrInvalidRecord indicates a record without an id was handed to Put.
	ErrInvalidRecord = errors.New("invalid record")
)

// Record is anything that can be persisted: it must know its own id.
type Record interface {
	RecordID() uuid.UUID
}

// Store is durable storage for one record type.
//
// Get collapses every failure into absent. Put is a full overwrite. Delete of
// a missing id is a no-op. All yields every indexed record that decodes.
type Store[T Record] interface {
	Get(ctx context.Context, id uuid.UUID) (T, bool)
	Put(ctx context.Context, record T) error
	Delete(ctx context.Context, id uuid.UUID) error
	All(ctx context.Context) iter.Seq[T]
}

// Codec converts records to and from bytes
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
