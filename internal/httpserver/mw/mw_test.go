package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRefillsOverWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Max:    3,
		Window: 3 * time.Second,
		Now:    func() time.Time { return now },
	})(okHandler)

	for i := 0; i < 3; i++ {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	// One token per second.
	now = now.Add(time.Second)
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitIsPerClient(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Hour, Now: func() time.Time { return now }})(okHandler)

	a := httptest.NewRequest(http.MethodGet, "/", nil)
	a.RemoteAddr = "10.0.0.1:1111"
	b := httptest.NewRequest(http.MethodGet, "/", nil)
	b.RemoteAddr = "10.0.0.2:2222"

	assert.Equal(t, http.StatusOK, serve(h, a).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, a).Code)
	assert.Equal(t, http.StatusOK, serve(h, b).Code)
}

func TestRateLimitTrustProxy(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Hour, TrustProxy: true, Now: func() time.Time { return now }})(okHandler)

	req := func(xff string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", xff)
		return r
	}
	assert.Equal(t, http.StatusOK, serve(h, req("203.0.113.1")).Code)
	assert.Equal(t, http.StatusOK, serve(h, req("203.0.113.2, 10.0.0.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, req("203.0.113.1")).Code)
}

func TestLimiterSweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Max: 5, Window: time.Minute, SweepInterval: time.Second, Now: func() time.Time { return now }})

	l.allow("a", now)
	l.allow("b", now.Add(30*time.Second))
	require.Equal(t, 2, l.size())

	l.sweepMaybe(now.Add(90 * time.Second))
	assert.Equal(t, 1, l.size())
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"marks.example.com", "*.internal.lan"}, logger.Nop())(okHandler)

	tests := []struct {
		host string
		want int
	}{
		{host: "marks.example.com", want: http.StatusOK},
		{host: "MARKS.example.com:8443", want: http.StatusOK},
		{host: "api.internal.lan", want: http.StatusOK},
		{host: "evil.example.com", want: http.StatusForbidden},
		{host: "internal.lan.evil", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			assert.Equal(t, tt.want, serve(h, req).Code)
		})
	}
}

func TestEnforceHostPassthrough(t *testing.T) {
	h := EnforceHost(nil, logger.Nop())(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything"
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8", "192.168.1.7"}, false, logger.Nop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{remote: "10.1.2.3:5000", want: http.StatusOK},
		{remote: "192.168.1.7:5000", want: http.StatusOK},
		{remote: "192.168.1.8:5000", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			assert.Equal(t, tt.want, serve(h, req).Code)
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Something went wrong!"}`, rec.Body.String())
}

func TestLogCapturesStatus(t *testing.T) {
	var seen int
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})
	wrapped := Log(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
		if sw, ok := w.(*statusWriter); ok {
			seen = sw.status
		}
	}))

	serve(wrapped, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, seen)
}
