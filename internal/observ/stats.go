package observ

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"rexfuzz/internal/driver"
)

// Snapshot представляет сжатую информацию о счётчиках для сериализации.
type Snapshot struct {
	Inputs        int64   `json:"inputs"`
	Execs         int64   `json:"execs"`
	CompileOK     int64   `json:"compile_ok"`
	ValidSubjects int64   `json:"valid_subjects"`
	ZeroWidth     int64   `json:"zero_width"`
	ExecRate      float64 `json:"exec_rate"`
	CompileRate   float64 `json:"compile_rate"`
	ValidRate     float64 `json:"valid_rate"`
}

// Take builds a snapshot of the counters with per-input ratios. The
// ratios tell whether the input distribution still reaches the engine:
// a compile rate near zero means almost every pattern is rejected
// before search.
func Take(c *driver.Counters) Snapshot {
	s := Snapshot{
		Inputs:        c.Inputs,
		Execs:         c.Execs,
		CompileOK:     c.CompileOK,
		ValidSubjects: c.ValidSubjects,
		ZeroWidth:     c.ZeroWidth,
	}
	if c.Inputs > 0 {
		s.ExecRate = ratio(c.Execs, c.Inputs)
		s.CompileRate = ratio(c.CompileOK, c.Inputs)
		s.ValidRate = ratio(c.ValidSubjects, c.Inputs)
	}
	return s
}

func ratio(part, whole int64) float64 {
	return float64(part) / float64(whole)
}

// Summary returns a human-readable one-screen rendering of a snapshot.
func (s Snapshot) Summary() string {
	out := "counters:\n"
	out += fmt.Sprintf("  %-16s %d\n", "inputs", s.Inputs)
	out += fmt.Sprintf("  %-16s %d (%.3f)\n", "execs", s.Execs, s.ExecRate)
	out += fmt.Sprintf("  %-16s %d (%.3f)\n", "compile ok", s.CompileOK, s.CompileRate)
	out += fmt.Sprintf("  %-16s %d (%.3f)\n", "valid subjects", s.ValidSubjects, s.ValidRate)
	out += fmt.Sprintf("  %-16s %d\n", "zero width", s.ZeroWidth)
	return out
}

var (
	statLabelColor = color.New(color.FgCyan)
	statValueColor = color.New(color.FgWhite, color.Bold)
)

// Reporter periodically prints counter snapshots to a writer. It is
// driven by the caller's loop, not a goroutine: Tick is cheap when the
// interval has not elapsed, so it can be called once per input.
type Reporter struct {
	w        io.Writer
	counters *driver.Counters
	interval time.Duration
	last     time.Time
}

// NewReporter creates a reporter over the given counters. A zero or
// negative interval disables it.
func NewReporter(w io.Writer, c *driver.Counters, interval time.Duration) *Reporter {
	return &Reporter{w: w, counters: c, interval: interval, last: time.Now()}
}

// Tick prints a stat line if the interval has elapsed since the last one.
func (r *Reporter) Tick() {
	if r.interval <= 0 {
		return
	}
	now := time.Now()
	if now.Sub(r.last) < r.interval {
		return
	}
	r.last = now
	r.Emit()
}

// Emit unconditionally prints one stat line.
func (r *Reporter) Emit() {
	s := Take(r.counters)
	fmt.Fprintf(r.w, "%s %s %s  %s %s (%.3f)  %s %s (%.3f)  %s %s (%.3f)\n",
		time.Now().Format("15:04:05"),
		statLabelColor.Sprint("inputs"), statValueColor.Sprintf("%d", s.Inputs),
		statLabelColor.Sprint("exec"), statValueColor.Sprintf("%d", s.Execs), s.ExecRate,
		statLabelColor.Sprint("compile"), statValueColor.Sprintf("%d", s.CompileOK), s.CompileRate,
		statLabelColor.Sprint("valid"), statValueColor.Sprintf("%d", s.ValidSubjects), s.ValidRate,
	)
}
