package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"scrawl/internal/config"
	"scrawl/internal/ratelimit"
	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/session"
	"scrawl/internal/stats"
	"scrawl/internal/store"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		remote, forwarded, want string
	}{
		{"10.0.0.1:5555", "", "10.0.0.1"},
		{"[::1]:60500", "", "::1"},
		{"10.0.0.1:5555", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{"10.0.0.1:5555", "[", "10.0.0.1"},
		{"", "", "unknown"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = c.remote
		if c.forwarded != "" {
			r.Header.Set("X-Forwarded-For", c.forwarded)
		}
		if got := ClientIP(r); got != c.want {
			t.Errorf("ClientIP(%q, %q) = %q, want %q", c.remote, c.forwarded, got, c.want)
		}
	}
}

func newTestMiddleware(local *ratelimit.Store) *Middleware {
	registry := store.NewRegistry(0, func(id string) *session.Session {
		return session.New(id, render.NewCanvas(60, 30), stats.New(id, nil, nil),
			session.Options{Scheduler: &scheduler.Manual{}})
	})
	return New(config.DefaultConfig(), registry, local, nil, nil)
}

func TestRateLimiter(t *testing.T) {
	m := newTestMiddleware(ratelimit.NewStore(0.001, 2))
	h := m.RateLimiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestSessionCookie(t *testing.T) {
	m := newTestMiddleware(nil)
	var seen []*session.Session
	h := m.Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, SessionFrom(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("cookies = %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("known session was issued a new cookie")
	}
	if len(seen) != 2 || seen[0] == nil || seen[0] != seen[1] {
		t.Fatal("second request did not reuse the session")
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	m := newTestMiddleware(nil)
	h := m.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("code = %d", rec.Code)
	}
}
