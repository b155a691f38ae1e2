// Package timing measures the phases of a restql-assist command.
package timing

import (
	"fmt"
	"strings"
	"time"

	"github.com/NikitaCOEUR/restql-assist/internal/logger"
)

// Timer tracks execution time of operations
type Timer struct {
	start time.Time
	marks map[string]time.Duration
	order []string // Track order of marks for consistent output
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
		marks: make(map[string]time.Duration),
		order: make([]string, 0),
	}
}

// Mark records a checkpoint with a label
func (t *Timer) Mark(label string) time.Duration {
	elapsed := time.Since(t.start)
	if _, seen := t.marks[label]; !seen {
		t.order = append(t.order, label)
	}
	t.marks[label] = elapsed
	return elapsed
}

// Elapsed returns total elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the duration for a specific mark
func (t *Timer) Get(label string) (time.Duration, bool) {
	d, ok := t.marks[label]
	return d, ok
}

// Labels returns the mark labels in the order they were first recorded
func (t *Timer) Labels() []string {
	return append([]string(nil), t.order...)
}

// Summary returns a formatted summary of all timings
func (t *Timer) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %.3fms", millis(t.Elapsed()))

	if len(t.order) > 0 {
		b.WriteString(" (")
		for i, label := range t.order {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %.3fms", label, millis(t.marks[label]))
		}
		b.WriteString(")")
	}

	return b.String()
}

// Log writes every mark and the total to log at debug level
func (t *Timer) Log(log *logger.Logger, msg string) {
	entry := log.Debug()
	for _, label := range t.order {
		entry = entry.Dur(label+"_ms", t.marks[label])
	}
	entry.Dur("total_ms", t.Elapsed()).Msg(msg)
}

// Reset resets the timer
func (t *Timer) Reset() {
	t.start = time.Now()
	t.marks = make(map[string]time.Duration)
	t.order = make([]string, 0)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
