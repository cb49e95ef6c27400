// Package openstates adapts the OpenStates-style state legislator API into
// the normalized representative schema. It understands state-level
// jurisdictions only and caches fully-paginated results per jurisdiction set.
package openstates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"represent/internal/cache"
	"represent/internal/divisions"
	"represent/internal/lookup/models"
	"represent/pkg/platform/sentinel"
)

// AdapterName identifies this adapter in warnings and logs.
const AdapterName = "openstates"

// Adapter is the state-legislator provider adapter.
type Adapter struct {
	client Client
	store  cache.Store
	ttl    cache.TTLPolicy
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New constructs the state legislator adapter.
func New(client Client, store cache.Store, ttl cache.TTLPolicy, opts ...Option) (*Adapter, error) {
	if client == nil {
		return nil, fmt.Errorf("openstates client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	a := &Adapter{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Name() string { return AdapterName }

func (a *Adapter) Level() divisions.Level { return divisions.LevelState }

// relevant filters the request's descriptors down to state-level
// jurisdictions this provider understands.
func relevant(descriptors []divisions.Descriptor) []divisions.Descriptor {
	var out []divisions.Descriptor
	for _, d := range descriptors {
		if d.Level() == divisions.LevelState && d.State != "" {
			out = append(out, d)
		}
	}
	return out
}

// Fetch returns state legislators for the given descriptors.
//
// The provider is queried once per distinct state jurisdiction, each query
// paginated to completion; the combined result is cached under a fingerprint
// of the relevant descriptor set. A partially-paginated result is never
// cached.
func (a *Adapter) Fetch(ctx context.Context, descriptors []divisions.Descriptor) ([]models.Representative, error) {
	descriptors = relevant(descriptors)
	if len(descriptors) == 0 {
		return nil, nil
	}

	rawIDs := make([]string, len(descriptors))
	for i, d := range descriptors {
		rawIDs[i] = d.Raw
	}
	key := cache.Key(cache.NamespaceRepresentatives, AdapterName, cache.Fingerprint(rawIDs))

	if cached, err := a.store.Get(ctx, key); err == nil {
		var reps []models.Representative
		if err := json.Unmarshal(cached, &reps); err == nil {
			a.logger.DebugContext(ctx, "representative cache hit", "adapter", AdapterName, "key", key)
			return reps, nil
		}
		a.logger.WarnContext(ctx, "representative cache entry corrupt", "key", key)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		a.logger.WarnContext(ctx, "representative cache read failed", "key", key, "error", err)
	}

	states := distinctStates(descriptors)

	var reps []models.Representative
	seen := make(map[string]bool)
	for _, state := range states {
		people, err := a.fetchJurisdiction(ctx, state)
		if err != nil {
			return nil, err
		}
		for _, person := range people {
			if person.ID == "" || seen[person.ID] {
				continue
			}
			seen[person.ID] = true
			reps = append(reps, normalize(person, state))
		}
	}

	if payload, err := json.Marshal(reps); err == nil {
		if err := a.store.Set(ctx, key, payload, a.ttl.For(cache.NamespaceRepresentatives)); err != nil {
			a.logger.WarnContext(ctx, "representative cache write failed", "key", key, "error", err)
		}
	}

	a.logger.InfoContext(ctx, "state legislators fetched",
		"states", states,
		"count", len(reps),
	)
	return reps, nil
}

// fetchJurisdiction follows pagination to completion for one state.
func (a *Adapter) fetchJurisdiction(ctx context.Context, state string) ([]Person, error) {
	var people []Person
	for page := 1; ; page++ {
		result, err := a.client.People(ctx, state, page)
		if err != nil {
			return nil, err
		}
		people = append(people, result.Results...)
		if result.Pagination.MaxPage <= page {
			return people, nil
		}
	}
}

// normalize maps a raw provider record into the Representative schema.
// Government level comes from the queried descriptor's level, never from the
// provider's own metadata.
func normalize(person Person, state string) models.Representative {
	website := ""
	for _, link := range person.Links {
		if link.URL != "" {
			website = link.URL
			break
		}
	}
	jurisdiction := person.Jurisdiction.Name
	if jurisdiction == "" {
		jurisdiction = state
	}
	return models.Representative{
		ID:              person.ID,
		Name:            person.Name,
		Office:          person.CurrentRole.Title,
		Party:           person.PartyName(),
		GovernmentLevel: divisions.LevelState,
		Jurisdiction:    jurisdiction,
		Email:           person.Email,
		Phone:           person.CapitolOffice.Voice,
		Address:         person.CapitolOffice.Address,
		Website:         website,
		PhotoURL:        person.Image,
	}
}

func distinctStates(descriptors []divisions.Descriptor) []string {
	set := make(map[string]bool)
	for _, d := range descriptors {
		set[d.State] = true
	}
	states := make([]string, 0, len(set))
	for state := range set {
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}
