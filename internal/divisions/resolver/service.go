// Package resolver turns a free-text address into the list of OCD divisions
// covering it, caching results so repeated lookups within the divisions TTL
// window never hit the external provider twice.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"represent/internal/cache"
	dErrors "represent/pkg/domain-errors"
	"represent/pkg/platform/sentinel"
)

// Service owns the address→divisions cache and the single call to the
// division provider on a miss.
type Service struct {
	client Client
	store  cache.Store
	ttl    cache.TTLPolicy
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs a division resolver service.
func New(client Client, store cache.Store, ttl cache.TTLPolicy, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("division client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	svc := &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve returns the ordered divisions covering the address.
//
// Failure semantics: an empty-but-successful provider result maps to
// ADDRESS_NOT_FOUND; unreachable or rate-limited providers are terminal here
// because nothing downstream can be computed without divisions.
func (s *Service) Resolve(ctx context.Context, address string) ([]Division, error) {
	key := cache.Key(cache.NamespaceDivisions, NormalizeAddress(address))

	if cached, err := s.store.Get(ctx, key); err == nil {
		var divisions []Division
		if err := json.Unmarshal(cached, &divisions); err == nil {
			s.logger.DebugContext(ctx, "division cache hit", "key", key)
			return divisions, nil
		}
		// Corrupt entry: treat as a miss and rebuild from the provider.
		s.logger.WarnContext(ctx, "division cache entry corrupt", "key", key)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		// Cache infrastructure trouble must not take the pipeline down.
		s.logger.WarnContext(ctx, "division cache read failed", "key", key, "error", err)
	}

	divisions, err := s.client.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(divisions) == 0 {
		return nil, dErrors.New(dErrors.CodeAddressNotFound,
			"No divisions found for the provided address")
	}

	if payload, err := json.Marshal(divisions); err == nil {
		if err := s.store.Set(ctx, key, payload, s.ttl.For(cache.NamespaceDivisions)); err != nil {
			s.logger.WarnContext(ctx, "division cache write failed", "key", key, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "divisions resolved",
		"division_count", len(divisions),
	)
	return divisions, nil
}

// NormalizeAddress produces the deterministic cache key component for an
// address: trimmed, lower-cased, inner whitespace collapsed.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
