// Package store persists curated local officials. The Postgres
// implementation backs production; the in-memory one backs tests and
// dev setups without a database.
package store

import (
	"context"

	"represent/internal/officials/models"
)

// Store is the officials persistence interface. Implementations return
// sentinel.ErrNotFound for missing records and sentinel.ErrConflict for
// duplicate creates.
type Store interface {
	Create(ctx context.Context, official *models.Official) error
	Get(ctx context.Context, id string) (*models.Official, error)
	List(ctx context.Context) ([]*models.Official, error)
	// ListByDivisions returns officials serving any of the given OCD
	// division identifiers, in stable (division, name) order.
	ListByDivisions(ctx context.Context, divisionIDs []string) ([]*models.Official, error)
	Update(ctx context.Context, official *models.Official) error
	Delete(ctx context.Context, id string) error
}
