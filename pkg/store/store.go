// Package store persists chart definitions for the HTTP service.
//
// A stored chart couples a server-assigned ID with the parsed definition and
// bookkeeping timestamps. Two backends are provided: an in-memory store for
// tests and single-instance setups, and a MongoDB store for deployments that
// need durability.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
)

// StoredChart is a chart definition with server-side metadata.
type StoredChart struct {
	ID         string               `json:"id" bson:"_id"`
	Definition chartfile.Definition `json:"definition" bson:"definition"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for chart persistence backends.
type Store interface {
	// Save persists a chart. A chart with an empty ID is assigned one;
	// saving an existing ID replaces the stored definition.
	Save(ctx context.Context, chart *StoredChart) error

	// Get retrieves a chart by ID. Returns ErrCodeChartNotFound if absent.
	Get(ctx context.Context, id string) (*StoredChart, error)

	// List returns all stored charts ordered by creation time.
	List(ctx context.Context) ([]*StoredChart, error)

	// Delete removes a chart by ID. Returns ErrCodeChartNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID generates a fresh chart identifier.
func NewID() string { return uuid.NewString() }

func notFound(id string) error {
	return errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
}
