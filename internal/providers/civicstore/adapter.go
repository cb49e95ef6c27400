// Package civicstore serves local-level representatives from the curated
// officials store. Coverage is best-effort: jurisdictions with no curated
// rows simply come back empty and the aggregator emits the coverage warning.
package civicstore

import (
	"context"
	"fmt"
	"log/slog"

	"represent/internal/divisions"
	"represent/internal/lookup/models"
	"represent/internal/officials/store"
	dErrors "represent/pkg/domain-errors"
)

// AdapterName identifies this adapter in warnings and logs.
const AdapterName = "civicstore"

// Adapter reads curated local officials by OCD division.
type Adapter struct {
	store  store.Store
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New constructs the local officials adapter.
func New(st store.Store, opts ...Option) (*Adapter, error) {
	if st == nil {
		return nil, fmt.Errorf("officials store is required")
	}
	a := &Adapter{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Name() string { return AdapterName }

func (a *Adapter) Level() divisions.Level { return divisions.LevelLocal }

// Fetch returns curated officials for the request's county and place
// descriptors. The store is local infrastructure, so no response cache sits
// in front of it.
func (a *Adapter) Fetch(ctx context.Context, descriptors []divisions.Descriptor) ([]models.Representative, error) {
	var divisionIDs []string
	for _, d := range descriptors {
		if d.Level() == divisions.LevelLocal {
			divisionIDs = append(divisionIDs, d.Raw)
		}
	}
	if len(divisionIDs) == 0 {
		return nil, nil
	}

	officials, err := a.store.ListByDivisions(ctx, divisionIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "curated officials lookup failed")
	}

	reps := make([]models.Representative, 0, len(officials))
	for _, o := range officials {
		reps = append(reps, models.Representative{
			ID:              AdapterName + "/" + o.ID,
			Name:            o.Name,
			Office:          o.Office,
			Party:           o.Party,
			GovernmentLevel: divisions.LevelLocal,
			Jurisdiction:    o.Jurisdiction,
			Email:           o.Email,
			Phone:           o.Phone,
			Address:         o.Address,
			Website:         o.Website,
			PhotoURL:        o.PhotoURL,
		})
	}

	a.logger.DebugContext(ctx, "curated officials fetched",
		"divisions", len(divisionIDs),
		"count", len(reps),
	)
	return reps, nil
}
