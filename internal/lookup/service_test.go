package lookup

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"represent/internal/divisions"
	"represent/internal/divisions/resolver"
	"represent/internal/geocode"
	"represent/internal/lookup/models"
	"represent/internal/providers"
	dErrors "represent/pkg/domain-errors"
)

type fakeResolver struct {
	divisions []resolver.Division
	err       error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) ([]resolver.Division, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.divisions, nil
}

type fakeAdapter struct {
	name  string
	level divisions.Level
	reps  []models.Representative
	err   error
	block bool
}

func (f *fakeAdapter) Name() string           { return f.name }
func (f *fakeAdapter) Level() divisions.Level { return f.level }
func (f *fakeAdapter) Fetch(ctx context.Context, _ []divisions.Descriptor) ([]models.Representative, error) {
	if f.block {
		<-ctx.Done()
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeExternalService, "provider timed out")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reps, nil
}

type fakeGeocoder struct {
	point *geocode.Point
	err   error
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (*geocode.Point, error) {
	return f.point, f.err
}

func stateRep(id, name string) models.Representative {
	return models.Representative{
		ID:              id,
		Name:            name,
		Office:          "Senator",
		Party:           "Democratic",
		GovernmentLevel: divisions.LevelState,
		Jurisdiction:    "Washington",
	}
}

// seattleDivisions mirrors a typical urban address resolution: country, state,
// county, and place, with no congressional district in the result.
func seattleDivisions() []resolver.Division {
	return []resolver.Division{
		{OCDID: "ocd-division/country:us", Name: "United States"},
		{OCDID: "ocd-division/country:us/state:wa", Name: "Washington"},
		{OCDID: "ocd-division/country:us/state:wa/county:king", Name: "King County"},
		{OCDID: "ocd-division/country:us/state:wa/place:seattle", Name: "Seattle"},
	}
}

type AggregatorSuite struct {
	suite.Suite
	resolver *fakeResolver
	registry *providers.Registry
	state    *fakeAdapter
	local    *fakeAdapter
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorSuite))
}

func (s *AggregatorSuite) SetupTest() {
	s.resolver = &fakeResolver{divisions: seattleDivisions()}
	s.state = &fakeAdapter{
		name:  "openstates",
		level: divisions.LevelState,
		reps: []models.Representative{
			stateRep("ocd-person/1", "Jamie Pedersen"),
			stateRep("ocd-person/2", "Nicole Macri"),
		},
	}
	s.local = &fakeAdapter{name: "civicstore", level: divisions.LevelLocal}
	s.registry = providers.NewRegistry()
	s.Require().NoError(s.registry.Register(s.state))
	s.Require().NoError(s.registry.Register(s.local))
}

func (s *AggregatorSuite) newService(opts ...Option) *Service {
	svc, err := New(s.resolver, s.registry, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *AggregatorSuite) TestAggregateHappyPath() {
	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)

	s.Len(envelope.Representatives.State, 2)
	s.Empty(envelope.Representatives.Federal)
	s.Empty(envelope.Representatives.Local)
	s.Equal(2, envelope.Metadata.TotalCount)
	s.Equal([]string{"state"}, envelope.Metadata.GovernmentLevels,
		"only levels with at least one representative are listed")
	s.Equal("1301 4th Ave Seattle WA 98101", envelope.Metadata.Address)
	s.GreaterOrEqual(envelope.Metadata.ResponseTimeMs, int64(0))
}

func (s *AggregatorSuite) TestAggregateEmptyLevelsSerializeAsArrays() {
	s.state.reps = nil

	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)

	payload, err := json.Marshal(envelope)
	s.Require().NoError(err)

	var body struct {
		Representatives map[string]json.RawMessage `json:"representatives"`
	}
	s.Require().NoError(json.Unmarshal(payload, &body))
	for _, level := range []string{"federal", "state", "local"} {
		s.Equal("[]", string(body.Representatives[level]),
			"level %s must serialize as an empty array, never null", level)
	}
}

func (s *AggregatorSuite) TestAggregateWarnsOnUncoveredJurisdictions() {
	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)

	s.Contains(envelope.Warnings,
		"No representative data available for King County (ocd-division/country:us/state:wa/county:king)")
	s.Contains(envelope.Warnings,
		"No representative data available for Seattle (ocd-division/country:us/state:wa/place:seattle)")
	s.Contains(envelope.Warnings,
		"No representative data available for United States (ocd-division/country:us)")
}

func (s *AggregatorSuite) TestAggregateDeduplicatesWithinLevel() {
	duplicate := stateRep("ocd-person/1", "Jamie Pedersen")
	duplicate.Party = "Different Party"
	s.state.reps = append(s.state.reps, duplicate)

	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)

	s.Len(envelope.Representatives.State, 2)
	s.Equal("Democratic", envelope.Representatives.State[0].Party,
		"first occurrence wins; duplicates never merge fields")
	s.Equal(envelope.Representatives.Total(), envelope.Metadata.TotalCount)
}

func (s *AggregatorSuite) TestAggregateAdapterFailureBecomesWarning() {
	s.state.err = dErrors.New(dErrors.CodeExternalService, "State legislator provider unreachable")
	s.local.reps = []models.Representative{{
		ID:              "civicstore/abc",
		Name:            "Bruce Harrell",
		Office:          "Mayor",
		GovernmentLevel: divisions.LevelLocal,
		Jurisdiction:    "Seattle",
	}}

	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err, "a failed provider never fails the request")

	s.Empty(envelope.Representatives.State)
	s.Len(envelope.Representatives.Local, 1)
	s.Equal([]string{"local"}, envelope.Metadata.GovernmentLevels)
	s.Contains(envelope.Warnings,
		"Could not retrieve state level data (openstates): State legislator provider unreachable")

	for _, warning := range envelope.Warnings {
		s.False(strings.HasPrefix(warning, "No representative data available for Washington"),
			"a failed level is not also warned per jurisdiction")
	}
}

func (s *AggregatorSuite) TestAggregateRateLimitedAdapterBecomesWarning() {
	s.state.err = dErrors.New(dErrors.CodeRateLimited, "State legislator provider rate limit exceeded")

	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)
	s.Contains(envelope.Warnings,
		"Could not retrieve state level data (openstates): State legislator provider rate limit exceeded")
}

func (s *AggregatorSuite) TestAggregateSlowAdapterTimesOutIntoWarning() {
	s.state.block = true
	s.local.reps = []models.Representative{{
		ID:              "civicstore/abc",
		Name:            "Bruce Harrell",
		Office:          "Mayor",
		GovernmentLevel: divisions.LevelLocal,
		Jurisdiction:    "Seattle",
	}}

	svc := s.newService(WithTimeout(50 * time.Millisecond))
	envelope, err := svc.Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err, "a timed-out provider degrades the response, never fails it")

	s.Empty(envelope.Representatives.State)
	s.Len(envelope.Representatives.Local, 1, "fast adapters still contribute")
	s.Require().NotEmpty(envelope.Warnings)
	s.Contains(envelope.Warnings[0], "Could not retrieve state level data (openstates)")
}

func (s *AggregatorSuite) TestAggregateResolverFailureIsTerminal() {
	s.resolver.err = dErrors.New(dErrors.CodeExternalService, "Division provider unreachable")

	_, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().Error(err)
	s.Equal(dErrors.CodeExternalService, dErrors.CodeOf(err))
}

func (s *AggregatorSuite) TestAggregateAddressNotFound() {
	s.resolver.err = dErrors.New(dErrors.CodeAddressNotFound, "No divisions found for the provided address")

	_, err := s.newService().Aggregate(context.Background(), "nowhere at all")
	s.Require().Error(err)
	s.Equal(dErrors.CodeAddressNotFound, dErrors.CodeOf(err))
}

func (s *AggregatorSuite) TestAggregateSkipsUnparseableDivisions() {
	s.resolver.divisions = append(s.resolver.divisions,
		resolver.Division{OCDID: "not-an-ocd-id", Name: "Mystery"},
		resolver.Division{OCDID: "ocd-division/country:us/state:wa/ward:3", Name: "Ward 3"},
	)

	envelope, err := s.newService().Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)
	s.Equal(2, envelope.Metadata.TotalCount, "unrecognized divisions are excluded, not fatal")
}

func (s *AggregatorSuite) TestAggregateGeocoderDecoratesCoordinates() {
	geocoder := &fakeGeocoder{point: &geocode.Point{Latitude: 47.6062, Longitude: -122.3321}}

	envelope, err := s.newService(WithGeocoder(geocoder)).Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)
	s.Require().NotNil(envelope.Metadata.Coordinates)
	s.InDelta(47.6062, envelope.Metadata.Coordinates.Latitude, 0.0001)
	s.InDelta(-122.3321, envelope.Metadata.Coordinates.Longitude, 0.0001)
}

func (s *AggregatorSuite) TestAggregateGeocoderFailureIsSilent() {
	geocoder := &fakeGeocoder{err: dErrors.New(dErrors.CodeExternalService, "geocoder down")}

	envelope, err := s.newService(WithGeocoder(geocoder)).Aggregate(context.Background(), "1301 4th Ave Seattle WA 98101")
	s.Require().NoError(err)
	s.Nil(envelope.Metadata.Coordinates)
	for _, warning := range envelope.Warnings {
		s.NotContains(warning, "geocoder")
	}
}

func (s *AggregatorSuite) TestValidateAddress() {
	s.Run("empty", func() {
		err := ValidateAddress("   ")
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidAddress, dErrors.CodeOf(err))
	})

	s.Run("over length", func() {
		err := ValidateAddress(strings.Repeat("a", 501))
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidAddress, dErrors.CodeOf(err))
	})

	s.Run("boundary length accepted", func() {
		s.NoError(ValidateAddress(strings.Repeat("a", 500)))
		s.NoError(ValidateAddress("a"))
	})
}

func (s *AggregatorSuite) TestAggregateRejectsInvalidAddressBeforeResolving() {
	s.resolver.err = dErrors.New(dErrors.CodeInternal, "resolver must not be called")

	_, err := s.newService().Aggregate(context.Background(), "")
	s.Require().Error(err)
	s.Equal(dErrors.CodeInvalidAddress, dErrors.CodeOf(err))
}
