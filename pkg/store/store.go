// Package store keeps packed layouts so the API can serve them by ID.
//
// # Backends
//
//   - [MemoryStore]: process-local, for development and tests
//   - [FileStore]: one JSON file per record, for single-node servers
//   - [MongoStore]: MongoDB collection, shared by every replica
//
// # Usage
//
//	rec := store.NewRecord(items, l)
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err := s.Get(ctx, rec.ID)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // unknown or deleted
//	}
//
// Record IDs are random UUIDs (github.com/google/uuid).
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/layout"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored packing pass: the items as submitted and the layout
// they produced.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	ItemsHash string        `json:"items_hash,omitempty" bson:"items_hash,omitempty"`
	Items     []layout.Item `json:"items" bson:"items"`
	Layout    layout.Layout `json:"layout" bson:"layout"`
}

// NewRecord creates a record with a fresh ID and the current time.
func NewRecord(items []layout.Item, l layout.Layout) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Items:     items,
		Layout:    l,
	}
}

// Store persists layout records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save inserts or replaces rec. An empty ID or CreatedAt is filled in.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with id, or an error with code NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes the record with id, or returns NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// ValidateID rejects IDs that are not UUIDs before they reach a backend.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
}

// prepare fills in the ID and timestamp of a record about to be saved.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
