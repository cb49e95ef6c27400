// Package models holds the normalized representative schema and the response
// envelope assembled by the lookup aggregator.
package models

import "represent/internal/divisions"

// Representative is the normalized record every provider adapter must map
// its own schema into. Created fresh per request and never mutated after
// creation.
type Representative struct {
	// ID is provider-namespaced and globally unique; deduplication keys on it.
	ID     string `json:"id"`
	Name   string `json:"name"`
	Office string `json:"office"`
	Party  string `json:"party,omitempty"`
	// GovernmentLevel is assigned from the descriptor used to query, never
	// self-reported by the provider.
	GovernmentLevel divisions.Level `json:"government_level"`
	Jurisdiction    string          `json:"jurisdiction"`

	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Leveled groups representatives by government level for the envelope.
// Construct with NewLeveled so empty levels marshal as [] rather than null.
type Leveled struct {
	Federal []Representative `json:"federal"`
	State   []Representative `json:"state"`
	Local   []Representative `json:"local"`
}

// NewLeveled returns a Leveled with every level initialized to an empty
// slice. The envelope always carries all three levels as arrays.
func NewLeveled() Leveled {
	return Leveled{
		Federal: []Representative{},
		State:   []Representative{},
		Local:   []Representative{},
	}
}

// Total returns the representative count across all levels.
func (l Leveled) Total() int {
	return len(l.Federal) + len(l.State) + len(l.Local)
}

// ForLevel returns the slice for a level; unclassified maps to nil.
func (l *Leveled) ForLevel(level divisions.Level) *[]Representative {
	switch level {
	case divisions.LevelFederal:
		return &l.Federal
	case divisions.LevelState:
		return &l.State
	case divisions.LevelLocal:
		return &l.Local
	default:
		return nil
	}
}

// Coordinates is the optional geocoded location echoed in metadata.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Metadata describes the resolved request.
type Metadata struct {
	Address          string       `json:"address"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	TotalCount       int          `json:"total_count"`
	GovernmentLevels []string     `json:"government_levels"`
	ResponseTimeMs   int64        `json:"response_time_ms,omitempty"`
}

// Envelope is the success response shape.
// Warnings are omitted entirely, not sent as an empty array, when none exist.
type Envelope struct {
	Representatives Leveled  `json:"representatives"`
	Metadata        Metadata `json:"metadata"`
	Warnings        []string `json:"warnings,omitempty"`
}
