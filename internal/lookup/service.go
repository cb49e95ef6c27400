// Package lookup orchestrates the address resolution pipeline: divisions,
// per-level provider fan-out, merge, and the response envelope.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/sync/errgroup"

	"represent/internal/divisions"
	"represent/internal/divisions/resolver"
	"represent/internal/geocode"
	"represent/internal/lookup/metrics"
	"represent/internal/lookup/models"
	"represent/internal/providers"
	dErrors "represent/pkg/domain-errors"
	"represent/pkg/requestcontext"
)

// DivisionResolver is the aggregator's view of the division resolver.
type DivisionResolver interface {
	Resolve(ctx context.Context, address string) ([]resolver.Division, error)
}

// Service runs the aggregation pipeline for one address at a time.
type Service struct {
	resolver DivisionResolver
	registry *providers.Registry
	geocoder geocode.Client // nil disables coordinate decoration
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithGeocoder enables coordinate decoration of response metadata.
func WithGeocoder(g geocode.Client) Option {
	return func(s *Service) { s.geocoder = g }
}

// WithTimeout overrides the aggregation deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New constructs the aggregator service.
func New(res DivisionResolver, registry *providers.Registry, opts ...Option) (*Service, error) {
	if res == nil {
		return nil, fmt.Errorf("division resolver is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	svc := &Service{
		resolver: res,
		registry: registry,
		timeout:  3 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// adapterResult is one adapter's slot in the fan-out join.
type adapterResult struct {
	adapter providers.Adapter
	reps    []models.Representative
	err     error
	elapsed time.Duration
}

// Aggregate runs the full pipeline for an address.
//
// Terminal failures: invalid input, an address resolving to zero divisions,
// and a failed division lookup. Provider adapter failures are never
// terminal; they surface as warnings on a 200 response.
func (s *Service) Aggregate(ctx context.Context, address string) (*models.Envelope, error) {
	if err := ValidateAddress(address); err != nil {
		s.metrics.RecordLookup("invalid", 0)
		return nil, err
	}
	address = strings.TrimSpace(address)

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	divs, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		s.metrics.RecordLookup(outcomeForError(err), 0)
		return nil, err
	}

	descriptors, names := s.classify(ctx, divs)

	// Fan out: one task per adapter plus the optional geocode task. Adapter
	// errors stay in their slot so one slow or failing level never poisons
	// another; the shared ctx carries the single aggregation deadline.
	adapters := s.registry.All()
	results := make([]adapterResult, len(adapters))
	var point *geocode.Point

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		i, adapter := i, adapter // go directive < 1.22: keep per-iteration loop variables
		g.Go(func() error {
			fetchStart := time.Now()
			reps, err := adapter.Fetch(gctx, descriptors)
			elapsed := time.Since(fetchStart)
			results[i] = adapterResult{adapter: adapter, reps: reps, err: err, elapsed: elapsed}
			s.metrics.ObserveAdapter(adapter.Name(), elapsed, err)
			return nil
		})
	}
	if s.geocoder != nil {
		g.Go(func() error {
			p, err := s.geocoder.Geocode(gctx, address)
			if err != nil {
				// Coordinates are decoration; failure is not even a warning.
				s.logger.DebugContext(gctx, "geocode failed", "error", err)
				return nil
			}
			point = p
			return nil
		})
	}
	_ = g.Wait()

	envelope := s.merge(ctx, address, descriptors, names, results)
	envelope.Metadata.Coordinates = toCoordinates(point)
	envelope.Metadata.ResponseTimeMs = time.Since(start).Milliseconds()

	s.metrics.RecordLookup("ok", len(envelope.Warnings))
	s.logger.InfoContext(ctx, "lookup aggregated",
		"request_id", requestcontext.RequestID(ctx),
		"division_count", len(divs),
		"total_count", envelope.Metadata.TotalCount,
		"warning_count", len(envelope.Warnings),
		"duration_ms", envelope.Metadata.ResponseTimeMs,
	)
	return envelope, nil
}

// classify parses every division, keeping classified descriptors for fan-out
// and a name index for warning messages. Unparseable and unclassified
// identifiers are logged for diagnostics and excluded from fan-out.
func (s *Service) classify(ctx context.Context, divs []resolver.Division) ([]divisions.Descriptor, map[string]string) {
	descriptors := make([]divisions.Descriptor, 0, len(divs))
	names := make(map[string]string, len(divs))
	for _, div := range divs {
		names[div.OCDID] = div.Name
		d, err := divisions.Parse(div.OCDID)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping unparseable division", "ocd_id", div.OCDID, "error", err)
			continue
		}
		if d.Level() == divisions.LevelUnclassified {
			s.logger.DebugContext(ctx, "skipping unclassified division", "ocd_id", div.OCDID)
			continue
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, names
}

// merge deduplicates adapter results per level, computes coverage warnings,
// and assembles the envelope.
func (s *Service) merge(
	ctx context.Context,
	address string,
	descriptors []divisions.Descriptor,
	names map[string]string,
	results []adapterResult,
) *models.Envelope {
	leveled := models.NewLeveled()
	var warnings []string
	failedLevels := make(map[divisions.Level]bool)
	seen := make(map[divisions.Level]map[string]bool)

	for _, result := range results {
		level := result.adapter.Level()
		if result.err != nil {
			failedLevels[level] = true
			warnings = append(warnings, fmt.Sprintf(
				"Could not retrieve %s level data (%s): %s",
				level, result.adapter.Name(), warningMessage(result.err)))
			s.logger.WarnContext(ctx, "adapter failed",
				"adapter", result.adapter.Name(),
				"level", string(level),
				"duration_ms", result.elapsed.Milliseconds(),
				"error", result.err,
			)
			continue
		}
		slot := leveled.ForLevel(level)
		if slot == nil {
			continue
		}
		if seen[level] == nil {
			seen[level] = make(map[string]bool)
		}
		// First-seen wins; later duplicates never merge field values.
		for _, rep := range result.reps {
			if seen[level][rep.ID] {
				continue
			}
			seen[level][rep.ID] = true
			*slot = append(*slot, rep)
		}
	}

	warnings = append(warnings, s.coverageWarnings(descriptors, names, &leveled, failedLevels)...)

	levels := make([]string, 0, 3)
	for _, level := range []divisions.Level{divisions.LevelFederal, divisions.LevelState, divisions.LevelLocal} {
		if len(*leveled.ForLevel(level)) > 0 {
			levels = append(levels, string(level))
		}
	}

	return &models.Envelope{
		Representatives: leveled,
		Metadata: models.Metadata{
			Address:          address,
			TotalCount:       leveled.Total(),
			GovernmentLevels: levels,
		},
		Warnings: warnings,
	}
}

// coverageWarnings names every level the response could not cover: levels
// with no resolved jurisdictions, and jurisdictions whose level came back
// empty. Levels that already produced a failure warning are not re-warned
// per jurisdiction.
func (s *Service) coverageWarnings(
	descriptors []divisions.Descriptor,
	names map[string]string,
	leveled *models.Leveled,
	failedLevels map[divisions.Level]bool,
) []string {
	byLevel := make(map[divisions.Level][]divisions.Descriptor)
	for _, d := range descriptors {
		byLevel[d.Level()] = append(byLevel[d.Level()], d)
	}

	var warnings []string
	for _, level := range []divisions.Level{divisions.LevelFederal, divisions.LevelState, divisions.LevelLocal} {
		levelDescriptors := byLevel[level]
		if len(levelDescriptors) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"No %s jurisdictions resolved for this address", level))
			continue
		}
		if len(*leveled.ForLevel(level)) > 0 || failedLevels[level] {
			continue
		}
		for _, d := range levelDescriptors {
			name := names[d.Raw]
			if name == "" {
				name = d.Raw
			}
			warnings = append(warnings, fmt.Sprintf(
				"No representative data available for %s (%s)", name, d.Raw))
		}
	}
	return warnings
}

// ValidateAddress enforces the inbound contract: required, 1-500 characters
// after trimming. Rejected before any external call.
func ValidateAddress(address string) error {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return dErrors.New(dErrors.CodeInvalidAddress, "Address cannot be empty").
			WithDetails("The address must contain at least one non-whitespace character")
	}
	if !govalidator.StringLength(trimmed, "1", "500") {
		return dErrors.Newf(dErrors.CodeInvalidAddress,
			"Address exceeds maximum length of 500 characters (provided: %d)", len(trimmed)).
			WithDetails("Please provide a shorter address")
	}
	return nil
}

// warningMessage keeps provider failure text client-presentable.
func warningMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "provider request failed"
}

func outcomeForError(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeAddressNotFound:
		return "not_found"
	case dErrors.CodeExternalService, dErrors.CodeRateLimited:
		return "unavailable"
	default:
		return "error"
	}
}

func toCoordinates(p *geocode.Point) *models.Coordinates {
	if p == nil {
		return nil
	}
	return &models.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}
