package handlers

import (
	"log"
	"net/http"

	"scrawl/internal/middleware"
)

// Pass answers 200 when the request carries a valid pass token for its
// session, either as cookie or as Authorization: Bearer.
func (h *Handlers) Pass(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	tok := bearer(r)
	if tok == "" {
		if c, err := r.Cookie(PassCookie); err == nil {
			tok = c.Value
		}
	}
	if tok == "" || h.Issuer == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"valid": false})
		return
	}
	if err := h.Issuer.Verify(tok, sess.ID()); err != nil {
		log.Printf("Pass: %v for %s", err, sess.ID())
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func bearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && (auth[:7] == "Bearer " || auth[:7] == "bearer ") {
		return auth[7:]
	}
	return ""
}
