// Package stats keeps per-session attempt counters and derives the advisory
// difficulty label shown next to the challenge.
package stats

import (
	"context"
	"log"
	"math"
	"time"
)

// Difficulty is an advisory label derived from the success rate. Nothing
// feeds it back into challenge generation.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DifficultyFor maps a success rate percentage onto a label. Both band
// edges are exclusive: 80 is medium, 40 is medium.
func DifficultyFor(rate int) Difficulty {
	switch {
	case rate > 80:
		return Hard
	case rate < 40:
		return Easy
	default:
		return Medium
	}
}

// Stats is the persisted state of a session. Successful never exceeds Total.
type Stats struct {
	Total      int        `json:"total"`
	Successful int        `json:"successful"`
	StartTime  time.Time  `json:"startTime"`
	Difficulty Difficulty `json:"difficulty"`
}

// SuccessRate returns round(100*Successful/Total), or 0 before any attempt.
func (s Stats) SuccessRate() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Successful) / float64(s.Total) * 100))
}

func fresh(now time.Time) Stats {
	return Stats{StartTime: now, Difficulty: Medium}
}

const storeTimeout = 2 * time.Second

// SessionStats owns the Stats of one session. It notifies a Display after
// every mutation and writes through to a Store on a best-effort basis.
// It is not safe for concurrent use; the owning session serializes calls.
type SessionStats struct {
	key     string
	stats   Stats
	display Display
	store   Store
	now     func() time.Time
}

// New creates stats for key, restoring a previous snapshot from store when
// one exists. A nil display or store is allowed.
func New(key string, display Display, store Store) *SessionStats {
	if display == nil {
		display = DisplayFunc(func(View) {})
	}
	if store == nil {
		store = nopStore{}
	}
	s := &SessionStats{
		key:     key,
		display: display,
		store:   store,
		now:     time.Now,
	}
	s.stats = fresh(s.now())
	s.load()
	s.notify()
	return s
}

// RecordAttempt counts one verification and re-derives the difficulty from
// the rate after this attempt.
func (s *SessionStats) RecordAttempt(success bool) {
	s.stats.Total++
	if success {
		s.stats.Successful++
	}
	s.stats.Difficulty = DifficultyFor(s.stats.SuccessRate())
	s.notify()
	s.save()
}

// Reset zeroes the counters and pins the difficulty to medium; deriving it
// from a rate of 0 would report easy before any attempt.
func (s *SessionStats) Reset() {
	s.stats = fresh(s.now())
	s.notify()
	s.save()
}

func (s *SessionStats) SuccessRate() int       { return s.stats.SuccessRate() }
func (s *SessionStats) Difficulty() Difficulty { return s.stats.Difficulty }

// Snapshot returns a copy of the current counters.
func (s *SessionStats) Snapshot() Stats { return s.stats }

// View returns the values the display sink receives.
func (s *SessionStats) View() View { return newView(s.stats) }

func (s *SessionStats) notify() {
	s.display.Show(s.View())
}

func (s *SessionStats) load() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	st, ok, err := s.store.LoadStats(ctx, s.key)
	if err != nil {
		log.Printf("SessionStats: could not load stats for %s: %v", s.key, err)
		return
	}
	if !ok || !st.valid() {
		return
	}
	s.stats = st
}

func (s *SessionStats) save() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.SaveStats(ctx, s.key, s.stats); err != nil {
		log.Printf("SessionStats: could not save stats for %s: %v", s.key, err)
	}
}

func (s Stats) valid() bool {
	if s.Total < 0 || s.Successful < 0 || s.Successful > s.Total {
		return false
	}
	switch s.Difficulty {
	case Easy, Medium, Hard:
		return true
	}
	return false
}
