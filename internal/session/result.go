package session

import (
	"time"

	"scrawl/internal/stats"
)

const (
	invalidMessage  = "Please enter only letters and numbers."
	matchMessage    = "Correct! You have successfully completed the CAPTCHA."
	mismatchMessage = "Incorrect. The correct answer was: %s"
	resolvedMessage = "Please wait for the next challenge."
)

// Outcome classifies a verification.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeMismatch
	OutcomeMatch
	// OutcomeResolved answers a challenge that was already resolved.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeResolved:
		return "resolved"
	default:
		return "invalid"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result describes what Verify decided. Correct is only set on a mismatch.
type Result struct {
	Outcome Outcome       `json:"outcome"`
	Input   string        `json:"input"`
	Message string        `json:"message"`
	Correct string        `json:"correct,omitempty"`
	Next    time.Duration `json:"-"`
	Stats   stats.View    `json:"stats"`
}
