package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"scrawl/internal/config"
	"scrawl/internal/geo"
	"scrawl/internal/ratelimit"
	"scrawl/internal/session"
	"scrawl/internal/store"
)

// Custom context key type to avoid collisions.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookie carries the session id.
const SessionCookie = "scrawl_session"

type Middleware struct {
	Cfg      *config.Config
	Sessions *store.Registry
	Local    *ratelimit.Store
	Redis    *store.Redis // nil unless the redis store is configured
	Geo      *geo.Locator
}

func New(cfg *config.Config, sessions *store.Registry, local *ratelimit.Store, redis *store.Redis, locator *geo.Locator) *Middleware {
	return &Middleware{
		Cfg:      cfg,
		Sessions: sessions,
		Local:    local,
		Redis:    redis,
		Geo:      locator,
	}
}

// SessionFrom returns the session attached by the Session middleware.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionContextKey).(*session.Session)
	return s
}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// Session resolves the session cookie, starting a new session when the
// cookie is missing or refers to an expired one.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
		sess, created := m.Sessions.GetOrCreate(id)
		if created {
			log.Printf("Session: started %s for %s", sess.ID(), ClientIP(r))
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(m.Cfg.SessionTTL / time.Second),
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RateLimiter rejects clients that exceed the configured request rate. With
// Redis configured the window is shared between instances.
func (m *Middleware) RateLimiter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := ClientIP(r)

		if m.Redis != nil {
			limited, err := m.Redis.IsRateLimited(r.Context(), identifier, m.Cfg.RateLimit.RequestsPerMinute)
			if err != nil {
				log.Printf("ERROR: Rate limiter check failed: %v", err)
			}
			if limited {
				log.Printf("RATE LIMIT EXCEEDED for identifier: %s", identifier)
				http.Error(w, "429 Too Many Requests", http.StatusTooManyRequests)
				return
			}
		} else if m.Local != nil && !m.Local.Allow(identifier) {
			log.Printf("RATE LIMIT EXCEEDED for identifier: %s", identifier)
			http.Error(w, "429 Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger prints one line per request with the client address and, when a
// GeoIP database is loaded, its country.
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ip := ClientIP(r)
		if country := m.Geo.Country(ip); country != "" {
			ip += " (" + country + ")"
		}
		log.Printf("Request: %s %s, IP: %s, Status: %d, Took: %s",
			r.Method, r.URL.Path, ip, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
