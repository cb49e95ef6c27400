// Package models holds the curated local-official record. No comprehensive
// nationwide local-government data source exists, so local coverage comes
// from this manually maintained dataset.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Official is one curated local official, keyed to the OCD division they
// serve (a county or a place).
type Official struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Office     string `json:"office"`
	Party      string `json:"party,omitempty"`
	State      string `json:"state"`
	DivisionID string `json:"division_id"`
	// Jurisdiction is the human-readable name shown in responses,
	// e.g. "King County" or "City of Seattle".
	Jurisdiction string `json:"jurisdiction"`

	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID mints an official record identifier.
func NewID() string {
	return uuid.NewString()
}
