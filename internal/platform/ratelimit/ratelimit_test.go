package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type LimiterSuite struct {
	suite.Suite
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) TestAllowWithinLimit() {
	limiter := NewLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		result := limiter.Allow("10.0.0.1")
		s.True(result.Allowed)
		s.Equal(2-i, result.Remaining)
	}

	result := limiter.Allow("10.0.0.1")
	s.False(result.Allowed)
}

func (s *LimiterSuite) TestKeysAreIndependent() {
	limiter := NewLimiter(1, time.Minute)

	s.True(limiter.Allow("10.0.0.1").Allowed)
	s.False(limiter.Allow("10.0.0.1").Allowed)
	s.True(limiter.Allow("10.0.0.2").Allowed)
}

func (s *LimiterSuite) TestWindowSlides() {
	limiter := NewLimiter(2, 20*time.Millisecond)

	s.True(limiter.Allow("10.0.0.1").Allowed)
	s.True(limiter.Allow("10.0.0.1").Allowed)
	s.False(limiter.Allow("10.0.0.1").Allowed)

	time.Sleep(25 * time.Millisecond)
	s.True(limiter.Allow("10.0.0.1").Allowed, "capacity returns once old requests leave the window")
}

func (s *LimiterSuite) TestIdleClientsAreSweptOut() {
	limiter := NewLimiter(5, 10*time.Millisecond)
	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")

	time.Sleep(15 * time.Millisecond)
	limiter.Allow("10.0.0.3")

	limiter.mu.Lock()
	_, stale := limiter.windows["10.0.0.1"]
	remaining := len(limiter.windows)
	limiter.mu.Unlock()

	s.False(stale, "idle client windows are dropped once their requests age out")
	s.Equal(1, remaining)
}

func (s *LimiterSuite) TestMiddleware() {
	limiter := NewLimiter(1, time.Minute)
	handler := Middleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/representatives?address=x", nil)
		req.RemoteAddr = remoteAddr
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	s.Run("admitted request passes through with headers", func() {
		rec := do("192.0.2.10:1234", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("1", rec.Header().Get("X-RateLimit-Limit"))
		s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	s.Run("rejected request gets the standard envelope", func() {
		rec := do("192.0.2.10:1234", "")
		s.Equal(http.StatusTooManyRequests, rec.Code)
		s.NotEmpty(rec.Header().Get("Retry-After"))

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("RATE_LIMIT_EXCEEDED", body.Error.Code)
	})

	s.Run("forwarded clients are limited separately", func() {
		rec := do("192.0.2.10:1234", "203.0.113.7, 10.0.0.1")
		s.Equal(http.StatusOK, rec.Code)
	})
}
