// Package service implements the curated officials admin operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"represent/internal/officials/models"
	"represent/internal/officials/store"
	dErrors "represent/pkg/domain-errors"
	"represent/pkg/platform/sentinel"
	"represent/pkg/requestcontext"
)

// Service validates and persists curated official records.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the officials service.
func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("officials store is required")
	}
	svc := &Service{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates and stores a new official. A missing ID is minted.
func (s *Service) Create(ctx context.Context, official *models.Official) (*models.Official, error) {
	if err := validate(official); err != nil {
		return nil, err
	}
	if official.ID == "" {
		official.ID = models.NewID()
	}
	now := requestcontext.Now(ctx)
	official.CreatedAt = now
	official.UpdatedAt = now

	if err := s.store.Create(ctx, official); err != nil {
		if err == sentinel.ErrConflict {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "official %s already exists", official.ID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create official")
	}

	s.logger.InfoContext(ctx, "official created",
		"official_id", official.ID,
		"division_id", official.DivisionID,
	)
	return official, nil
}

// Get returns one official by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Official, error) {
	official, err := s.store.Get(ctx, id)
	if err != nil {
		if err == sentinel.ErrNotFound {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "official %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get official")
	}
	return official, nil
}

// List returns every curated official.
func (s *Service) List(ctx context.Context) ([]*models.Official, error) {
	officials, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officials")
	}
	return officials, nil
}

// Update replaces an existing official record.
func (s *Service) Update(ctx context.Context, official *models.Official) (*models.Official, error) {
	if official.ID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "official id is required")
	}
	if err := validate(official); err != nil {
		return nil, err
	}
	official.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, official); err != nil {
		if err == sentinel.ErrNotFound {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "official %s not found", official.ID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update official")
	}

	s.logger.InfoContext(ctx, "official updated", "official_id", official.ID)
	return official, nil
}

// Delete removes an official.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sentinel.ErrNotFound {
			return dErrors.Newf(dErrors.CodeNotFound, "official %s not found", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete official")
	}
	s.logger.InfoContext(ctx, "official deleted", "official_id", id)
	return nil
}

func validate(official *models.Official) error {
	switch {
	case official == nil:
		return dErrors.New(dErrors.CodeBadRequest, "official body is required")
	case strings.TrimSpace(official.Name) == "":
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	case strings.TrimSpace(official.Office) == "":
		return dErrors.New(dErrors.CodeBadRequest, "office is required")
	case strings.TrimSpace(official.Jurisdiction) == "":
		return dErrors.New(dErrors.CodeBadRequest, "jurisdiction is required")
	case !strings.HasPrefix(official.DivisionID, "ocd-division/country:us"):
		return dErrors.New(dErrors.CodeBadRequest, "division_id must be a US OCD identifier")
	}
	return nil
}
