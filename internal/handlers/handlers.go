package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"scrawl/internal/middleware"
	"scrawl/internal/token"
)

// PassCookie carries the signed pass token earned by a correct answer.
const PassCookie = "scrawl_pass"

// Handlers serves the CAPTCHA API for the session attached by middleware.
type Handlers struct {
	Issuer *token.Issuer
	// SecureCookies marks the pass cookie Secure; enable behind TLS.
	SecureCookies bool
}

func New(issuer *token.Issuer, secureCookies bool) *Handlers {
	return &Handlers{Issuer: issuer, SecureCookies: secureCookies}
}

// ChallengeResponse is returned by GET /api/captcha and POST /api/captcha/new.
type ChallengeResponse struct {
	Session string `json:"session"`
	Image   string `json:"image"` // PNG data URL
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: Failed to encode response: %v", err)
	}
}

// Challenge renders the current challenge afresh and returns it inline.
func (h *Handlers) Challenge(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	var buf bytes.Buffer
	if err := sess.WriteImage(&buf); err != nil {
		log.Printf("Challenge: Failed to render challenge for %s: %v", sess.ID(), err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, ChallengeResponse{
		Session: sess.ID(),
		Image:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

// NewChallenge replaces the session's challenge, then answers like Challenge.
func (h *Handlers) NewChallenge(w http.ResponseWriter, r *http.Request) {
	middleware.SessionFrom(r.Context()).NewChallenge()
	h.Challenge(w, r)
}

// Image streams the current challenge as PNG. Each request draws a new image.
func (h *Handlers) Image(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	var buf bytes.Buffer
	if err := sess.WriteImage(&buf); err != nil {
		log.Printf("Image: Failed to render challenge for %s: %v", sess.ID(), err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
