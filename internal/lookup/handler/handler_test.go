package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"represent/internal/divisions"
	"represent/internal/lookup/models"
	dErrors "represent/pkg/domain-errors"
)

type fakeAggregator struct {
	envelope    *models.Envelope
	err         error
	lastAddress string
}

func (f *fakeAggregator) Aggregate(_ context.Context, address string) (*models.Envelope, error) {
	f.lastAddress = address
	if f.err != nil {
		return nil, f.err
	}
	return f.envelope, nil
}

type LookupHandlerSuite struct {
	suite.Suite
	aggregator *fakeAggregator
	router     chi.Router
}

func TestLookupHandlerSuite(t *testing.T) {
	suite.Run(t, new(LookupHandlerSuite))
}

func (s *LookupHandlerSuite) SetupTest() {
	reps := models.NewLeveled()
	reps.State = append(reps.State, models.Representative{
		ID:              "ocd-person/1",
		Name:            "Jamie Pedersen",
		Office:          "Senator",
		Party:           "Democratic",
		GovernmentLevel: divisions.LevelState,
		Jurisdiction:    "Washington",
	})
	s.aggregator = &fakeAggregator{
		envelope: &models.Envelope{
			Representatives: reps,
			Metadata: models.Metadata{
				Address:          "1301 4th Ave Seattle WA 98101",
				TotalCount:       1,
				GovernmentLevels: []string{"state"},
			},
		},
	}
	s.router = chi.NewRouter()
	New(s.aggregator, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *LookupHandlerSuite) do(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *LookupHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func (s *LookupHandlerSuite) TestMissingAddressParameter() {
	rec := s.do("/representatives")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("MISSING_PARAMETER", s.errorCode(rec))
}

func (s *LookupHandlerSuite) TestEmptyAddressReachesValidation() {
	s.aggregator.err = dErrors.New(dErrors.CodeInvalidAddress, "Address cannot be empty")

	rec := s.do("/representatives?address=")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_ADDRESS", s.errorCode(rec))
	s.Equal("", s.aggregator.lastAddress, "an empty but present parameter is passed through, not treated as missing")
}

func (s *LookupHandlerSuite) TestAddressNotFound() {
	s.aggregator.err = dErrors.New(dErrors.CodeAddressNotFound, "No divisions found for the provided address")

	rec := s.do("/representatives?address=nowhere")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("ADDRESS_NOT_FOUND", s.errorCode(rec))
}

func (s *LookupHandlerSuite) TestProviderOutage() {
	s.aggregator.err = dErrors.New(dErrors.CodeExternalService, "Division provider unreachable")

	rec := s.do("/representatives?address=1301+4th+Ave")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("EXTERNAL_SERVICE_ERROR", s.errorCode(rec))
}

func (s *LookupHandlerSuite) TestSuccessEnvelope() {
	rec := s.do("/representatives?address=1301+4th+Ave+Seattle+WA+98101")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.Equal("1301 4th Ave Seattle WA 98101", s.aggregator.lastAddress)

	var body map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Contains(body, "representatives")
	s.Contains(body, "metadata")
	s.NotContains(body, "warnings", "warnings key is omitted when there are none")

	var levels map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(body["representatives"], &levels))
	s.Equal("[]", string(levels["federal"]), "empty levels are arrays on the wire")
	s.Equal("[]", string(levels["local"]))
}

func (s *LookupHandlerSuite) TestWarningsIncludedWhenPresent() {
	s.aggregator.envelope.Warnings = []string{
		"No representative data available for King County (ocd-division/country:us/state:wa/county:king)",
	}

	rec := s.do("/representatives?address=1301+4th+Ave+Seattle+WA+98101")
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Warnings []string `json:"warnings"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Len(body.Warnings, 1)
}
