// Package providers defines the adapter contract every representative data
// source implements, and a small registry the aggregator fans out over.
//
// Each adapter owns its own normalization boundary: provider-specific field
// drift never leaks past the adapter, and government level is derived from
// the descriptor used to query, not from provider metadata.
package providers

import (
	"context"
	"fmt"

	"represent/internal/divisions"
	"represent/internal/lookup/models"
)

// Adapter fetches normalized representatives for one data source.
//
// Fetch receives the full descriptor set for the request and must filter it
// to the jurisdictions it understands. A failed adapter returns an error; the
// aggregator converts it into a warning, never a request failure.
type Adapter interface {
	// Name identifies the adapter in logs and warnings.
	Name() string
	// Level is the government level this adapter supplies data for.
	Level() divisions.Level
	// Fetch returns normalized representatives for the descriptors the
	// adapter understands. An empty result is not an error.
	Fetch(ctx context.Context, descriptors []divisions.Descriptor) ([]models.Representative, error)
}

// Registry maintains registered adapters in registration order.
type Registry struct {
	adapters []Adapter
	byName   map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Adapter)}
}

// Register adds an adapter. Duplicate names are a wiring bug.
func (r *Registry) Register(a Adapter) error {
	name := a.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("adapter %s already registered", name)
	}
	r.byName[name] = a
	r.adapters = append(r.adapters, a)
	return nil
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []Adapter {
	return r.adapters
}

// Levels returns the set of levels with at least one registered adapter.
func (r *Registry) Levels() map[divisions.Level]bool {
	levels := make(map[divisions.Level]bool, len(r.adapters))
	for _, a := range r.adapters {
		levels[a.Level()] = true
	}
	return levels
}
