package observ

import (
	"strings"
	"testing"
	"time"

	"rexfuzz/internal/driver"
)

func TestTakeRatios(t *testing.T) {
	c := &driver.Counters{Inputs: 10, Execs: 8, CompileOK: 4, ValidSubjects: 2, ZeroWidth: 1}
	s := Take(c)
	if s.ExecRate != 0.8 || s.CompileRate != 0.4 || s.ValidRate != 0.2 {
		t.Errorf("rates = %.2f %.2f %.2f, want 0.80 0.40 0.20", s.ExecRate, s.CompileRate, s.ValidRate)
	}
	if s.ZeroWidth != 1 {
		t.Errorf("ZeroWidth = %d, want 1", s.ZeroWidth)
	}
}

func TestTakeZeroInputs(t *testing.T) {
	s := Take(&driver.Counters{})
	if s.ExecRate != 0 || s.CompileRate != 0 || s.ValidRate != 0 {
		t.Errorf("rates on empty counters = %+v, want zeros", s)
	}
}

func TestSummaryMentionsEveryCounter(t *testing.T) {
	s := Take(&driver.Counters{Inputs: 3, Execs: 3, CompileOK: 2, ValidSubjects: 1})
	out := s.Summary()
	for _, label := range []string{"inputs", "execs", "compile ok", "valid subjects", "zero width"} {
		if !strings.Contains(out, label) {
			t.Errorf("Summary missing %q:\n%s", label, out)
		}
	}
}

func TestReporterTickRespectsInterval(t *testing.T) {
	var sb strings.Builder
	c := &driver.Counters{Inputs: 1}
	r := NewReporter(&sb, c, time.Hour)

	r.Tick()
	if sb.Len() != 0 {
		t.Errorf("Tick printed before interval elapsed: %q", sb.String())
	}

	r.last = time.Now().Add(-2 * time.Hour)
	r.Tick()
	if sb.Len() == 0 {
		t.Error("Tick printed nothing after interval elapsed")
	}
}

func TestReporterDisabled(t *testing.T) {
	var sb strings.Builder
	r := NewReporter(&sb, &driver.Counters{}, 0)
	r.last = time.Now().Add(-time.Hour)
	r.Tick()
	if sb.Len() != 0 {
		t.Errorf("disabled reporter printed: %q", sb.String())
	}
}

func TestEmitContainsCounts(t *testing.T) {
	var sb strings.Builder
	c := &driver.Counters{Inputs: 42, Execs: 40, CompileOK: 7, ValidSubjects: 5}
	NewReporter(&sb, c, time.Second).Emit()
	out := sb.String()
	for _, want := range []string{"42", "40", "7", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("Emit output missing %q:\n%s", want, out)
		}
	}
}
