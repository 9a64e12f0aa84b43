// Package session ties a generator, a renderer and SessionStats together:
// it holds the current challenge, verifies answers and schedules the next
// challenge after a result-dependent delay.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"scrawl/internal/challenge"
	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/stats"
)

// ErrInvalidInput is returned by Verify when the answer contains symbols
// outside A-Z and 0-9. It does not count as an attempt.
var ErrInvalidInput = errors.New("enter only letters and numbers")

// ErrChallengeResolved is returned by Verify once the current challenge has
// been answered and its replacement is pending. Nothing is recorded.
var ErrChallengeResolved = errors.New("challenge already answered, wait for the next one")

// ErrNoEncoder is returned by WriteImage when the surface cannot encode PNG.
var ErrNoEncoder = errors.New("surface cannot encode images")

const (
	DefaultSuccessDelay = 1500 * time.Millisecond
	DefaultFailureDelay = 3 * time.Second
)

// Options tune a Session. Zero values select the defaults.
type Options struct {
	Length       int
	SuccessDelay time.Duration
	FailureDelay time.Duration
	Scheduler    scheduler.Scheduler
}

func (o Options) withDefaults() Options {
	if o.Length <= 0 {
		o.Length = challenge.DefaultLength
	}
	if o.SuccessDelay <= 0 {
		o.SuccessDelay = DefaultSuccessDelay
	}
	if o.FailureDelay <= 0 {
		o.FailureDelay = DefaultFailureDelay
	}
	if o.Scheduler == nil {
		o.Scheduler = scheduler.Timer{}
	}
	return o
}

// PNGEncoder is implemented by surfaces that can serialize their raster.
type PNGEncoder interface {
	EncodePNG(w io.Writer) error
}

// Session is one user's CAPTCHA state. All methods are safe for concurrent
// use; delayed callbacks and requests are serialized by the session lock.
type Session struct {
	mu      sync.Mutex
	id      string
	opts    Options
	surface render.Surface
	stats   *stats.SessionStats
	current string
	// resolved is set once current has been answered; it stays set until
	// the next challenge is drawn.
	resolved bool

	// pending is the delayed regeneration, if any. gen is bumped whenever
	// the challenge changes so a timer that already fired cannot apply.
	pending scheduler.Handle
	gen     uint64
}

// New creates a session and draws its first challenge onto surface.
func New(id string, surface render.Surface, st *stats.SessionStats, opts Options) *Session {
	s := &Session{
		id:      id,
		opts:    opts.withDefaults(),
		surface: surface,
		stats:   st,
	}
	s.mu.Lock()
	s.newChallengeLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) ID() string { return s.id }

// Challenge returns the current challenge text.
func (s *Session) Challenge() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NewChallenge replaces the current challenge and draws it. Any pending
// delayed regeneration is canceled.
func (s *Session) NewChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newChallengeLocked()
}

func (s *Session) newChallengeLocked() {
	s.cancelPendingLocked()
	s.gen++
	s.resolved = false
	s.current = challenge.Generate(s.opts.Length)
	render.Render(s.surface, s.current)
}

func (s *Session) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

// Verify normalizes input and compares it with the current challenge. Invalid
// input returns ErrInvalidInput and leaves stats and challenge untouched;
// otherwise the attempt is recorded and a new challenge is scheduled. Each
// challenge is resolved at most once; later answers get ErrChallengeResolved.
func (s *Session) Verify(input string) (Result, error) {
	answer := challenge.Normalize(input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !challenge.IsValidInput(answer) {
		return Result{Outcome: OutcomeInvalid, Input: answer, Message: invalidMessage}, ErrInvalidInput
	}
	if s.resolved {
		return Result{Outcome: OutcomeResolved, Input: answer, Message: resolvedMessage, Stats: s.stats.View()}, ErrChallengeResolved
	}
	s.resolved = true

	res := Result{Input: answer}
	if answer == s.current {
		res.Outcome = OutcomeMatch
		res.Message = matchMessage
		res.Next = s.opts.SuccessDelay
	} else {
		res.Outcome = OutcomeMismatch
		res.Correct = s.current
		res.Message = fmt.Sprintf(mismatchMessage, s.current)
		res.Next = s.opts.FailureDelay
	}
	s.stats.RecordAttempt(res.Outcome == OutcomeMatch)
	res.Stats = s.stats.View()
	s.scheduleLocked(res.Next)

	log.Printf("Verify: session %s outcome %s, next challenge in %s", s.id, res.Outcome, res.Next)
	return res, nil
}

func (s *Session) scheduleLocked(delay time.Duration) {
	s.cancelPendingLocked()
	gen := s.gen
	s.pending = s.opts.Scheduler.Schedule(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.pending = nil
		s.newChallengeLocked()
	})
}

// ResetStats zeroes the statistics and starts over with a new challenge.
func (s *Session) ResetStats() stats.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Reset()
	s.newChallengeLocked()
	return s.stats.View()
}

// Stats returns the current statistics view.
func (s *Session) Stats() stats.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.View()
}

// Redraw paints the current challenge again with fresh distortion.
func (s *Session) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	render.Render(s.surface, s.current)
}

// WriteImage redraws the current challenge and writes it as PNG. Output is
// never reused between calls.
func (s *Session) WriteImage(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc, ok := s.surface.(PNGEncoder)
	if !ok {
		return ErrNoEncoder
	}
	render.Render(s.surface, s.current)
	if err := enc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode challenge image: %w", err)
	}
	return nil
}

// Close cancels any pending regeneration.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.gen++
}
