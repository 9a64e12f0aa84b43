package stats

import (
	"strconv"
	"strings"
	"sync"
)

// Display slot names.
const (
	SlotTotal      = "totalAttempts"
	SlotSuccessful = "successfulAttempts"
	SlotRate       = "successRate"
	SlotDifficulty = "currentDifficulty"
)

// View is what a display sink receives after every mutation.
type View struct {
	Total       int        `json:"total"`
	Successful  int        `json:"successful"`
	SuccessRate int        `json:"successRate"`
	Difficulty  Difficulty `json:"difficulty"`
}

func newView(s Stats) View {
	return View{
		Total:       s.Total,
		Successful:  s.Successful,
		SuccessRate: s.SuccessRate(),
		Difficulty:  s.Difficulty,
	}
}

// Slots renders the view as display strings, e.g. "75%" and "Hard".
func (v View) Slots() map[string]string {
	label := string(v.Difficulty)
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return map[string]string{
		SlotTotal:      strconv.Itoa(v.Total),
		SlotSuccessful: strconv.Itoa(v.Successful),
		SlotRate:       strconv.Itoa(v.SuccessRate) + "%",
		SlotDifficulty: label,
	}
}

// Display receives a fresh View after every stats mutation.
type Display interface {
	Show(View)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(View)

func (f DisplayFunc) Show(v View) { f(v) }

// Latest is a Display that remembers the most recent view. It is safe for
// concurrent use so HTTP handlers can read it while a timer updates it.
type Latest struct {
	mu sync.RWMutex
	v  View
}

func (l *Latest) Show(v View) {
	l.mu.Lock()
	l.v = v
	l.mu.Unlock()
}

func (l *Latest) View() View {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v
}
