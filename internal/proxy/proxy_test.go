package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scrawl/internal/handlers"
	"scrawl/internal/middleware"
	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/session"
	"scrawl/internal/stats"
	"scrawl/internal/token"
)

func TestGate(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "protected "+r.Header.Get("X-Scrawl-Verified"))
	}))
	defer backend.Close()

	issuer := token.NewIssuer([]byte("k"), time.Hour)
	g, err := NewGate(backend.URL, issuer, "/static/index.html")
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New("s1", render.NewCanvas(40, 20), stats.New("s1", nil, nil),
		session.Options{Scheduler: &scheduler.Manual{}})

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/static/index.html" {
		t.Fatalf("unverified: code %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	tok, err := issuer.Issue("s1")
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: handlers.PassCookie, Value: tok})
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec = httptest.NewRecorder()
	g.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "protected true" {
		t.Fatalf("verified: code %d body %q", rec.Code, rec.Body.String())
	}
}
