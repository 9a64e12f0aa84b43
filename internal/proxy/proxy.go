package proxy

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"scrawl/internal/handlers"
	"scrawl/internal/middleware"
	"scrawl/internal/token"
)

// Gate forwards requests to a backend only for sessions holding a valid pass
// token; everyone else is sent to the challenge page.
type Gate struct {
	rp        *httputil.ReverseProxy
	issuer    *token.Issuer
	challenge string
}

// NewGate proxies to backend. challengePath is where unverified browsers are
// redirected.
func NewGate(backend string, issuer *token.Issuer, challengePath string) (*Gate, error) {
	u, err := url.Parse(backend)
	if err != nil {
		return nil, err
	}
	rp := httputil.NewSingleHostReverseProxy(u)

	origDirector := rp.Director
	rp.Director = func(req *http.Request) {
		origDirector(req)
		req.Header.Set("X-Scrawl-Proxy", "scrawl/1.0")
		req.Header.Set("X-Scrawl-Verified", "true")
	}
	return &Gate{rp: rp, issuer: issuer, challenge: challengePath}, nil
}

// ServeHTTP must run behind the Session middleware.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	c, err := r.Cookie(handlers.PassCookie)
	if err == nil && sess != nil {
		if err = g.issuer.Verify(c.Value, sess.ID()); err == nil {
			g.rp.ServeHTTP(w, r)
			return
		}
	}
	log.Printf("Gate: %s %s not verified (%v), redirecting", r.Method, r.URL.Path, err)
	http.Redirect(w, r, g.challenge, http.StatusSeeOther)
}
