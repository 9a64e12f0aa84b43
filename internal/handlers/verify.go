package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"scrawl/internal/middleware"
	"scrawl/internal/session"
)

// maxVerifyBody caps the verify request body.
const maxVerifyBody = 4 << 10

// VerifyRequest is the answer typed by the user.
type VerifyRequest struct {
	Answer string `json:"answer"`
}

// VerifyResponse reports the outcome. Correct is only filled on a mismatch
// and Token only on a match.
type VerifyResponse struct {
	Outcome string            `json:"outcome"`
	Message string            `json:"message"`
	Correct string            `json:"correct,omitempty"`
	NextMS  int64             `json:"nextChallengeMs,omitempty"`
	Stats   map[string]string `json:"stats"`
	Token   string            `json:"token,omitempty"`
}

// Verify checks an answer against the session's challenge.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())

	var req VerifyRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxVerifyBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Verify: Invalid request body for %s: %v", sess.ID(), err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	res, err := sess.Verify(req.Answer)
	resp := VerifyResponse{
		Outcome: res.Outcome.String(),
		Message: res.Message,
		Correct: res.Correct,
		NextMS:  res.Next.Milliseconds(),
	}
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		resp.Stats = sess.Stats().Slots()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	case errors.Is(err, session.ErrChallengeResolved):
		resp.Stats = res.Stats.Slots()
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	resp.Stats = res.Stats.Slots()

	if res.Outcome == session.OutcomeMatch && h.Issuer != nil {
		tok, err := h.Issuer.Issue(sess.ID())
		if err != nil {
			log.Printf("Verify: Failed to generate token for %s: %v", sess.ID(), err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		resp.Token = tok
		http.SetCookie(w, &http.Cookie{
			Name:     PassCookie,
			Value:    tok,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.SecureCookies,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   int(h.Issuer.TTL().Seconds()),
		})
		log.Printf("Verify: Issued pass token for %s", sess.ID())
	}
	writeJSON(w, http.StatusOK, resp)
}
