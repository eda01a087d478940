// Package harness is the entry point the external fuzz driver calls:
// one raw buffer in, one integer status out. It owns the counters
// context, the decode configuration and the fatal-escalation policy.
package harness

import (
	"fmt"
	"os"

	"rexfuzz/internal/artifact"
	"rexfuzz/internal/driver"
	"rexfuzz/internal/engine"
	"rexfuzz/internal/testcase"
	"rexfuzz/internal/verdict"
)

const (
	// StatusOK covers every non-fatal outcome, including inputs too
	// short to be test cases.
	StatusOK = 0
	// StatusFatal tells the caller to abort the process immediately.
	StatusFatal = -2
	// AbortExitCode is the distinguished process exit status for the
	// fatal path, separated from ordinary failure codes so the external
	// fuzz driver's crash detection picks it up.
	AbortExitCode = 254
)

// Config assembles a harness.
type Config struct {
	// Engine must be set; the harness never picks one itself.
	Engine engine.Engine
	// Limits defaults to engine.DefaultLimits when zero.
	Limits engine.Limits
	// Decode selects the grammar variant (pinned encoding, syntax probe).
	Decode testcase.Config
	// ArtifactDir, when set, receives a crash record before a fatal
	// status is returned.
	ArtifactDir string
	// AbortOnFatal terminates the process with AbortExitCode instead of
	// returning StatusFatal. Cleanup is deliberately skipped: engine
	// state may be corrupt, and a fresh process is required anyway.
	AbortOnFatal bool

	// exit is swappable for tests; nil means os.Exit.
	exit func(int)
}

// Harness processes one input at a time. Not safe for concurrent use;
// run one harness per worker.
type Harness struct {
	cfg      Config
	counters driver.Counters
	drv      *driver.Driver
}

// New builds a harness. The engine is mandatory.
func New(cfg Config) *Harness {
	if cfg.Engine == nil {
		panic("harness: nil engine")
	}
	if cfg.Limits == (engine.Limits{}) {
		cfg.Limits = engine.DefaultLimits()
	}
	if cfg.exit == nil {
		cfg.exit = os.Exit
	}
	h := &Harness{cfg: cfg}
	h.drv = &driver.Driver{
		Engine:   cfg.Engine,
		Limits:   cfg.Limits,
		Counters: &h.counters,
	}
	return h
}

// Counters exposes the harness's execution counters for reporting.
func (h *Harness) Counters() *driver.Counters {
	return &h.counters
}

// TestOneInput decodes data and drives the engine through the resulting
// test case. It returns StatusOK for everything except a fatal engine
// bug, which yields StatusFatal (or terminates the process when
// AbortOnFatal is set).
func (h *Harness) TestOneInput(data []byte) int {
	h.counters.Inputs++

	tc, ok := testcase.Decode(data, h.cfg.Decode)
	if !ok {
		return StatusOK
	}

	v := h.drv.Exec(tc)
	if v != verdict.FatalEngineBug {
		return StatusOK
	}

	if h.cfg.ArtifactDir != "" {
		// процесс сейчас умрёт — пишем артефакт по возможности
		if rec, err := artifact.FromTestCase(data, tc, h.cfg.Engine.Name()); err == nil {
			if path, err := artifact.Write(h.cfg.ArtifactDir, rec); err == nil {
				fmt.Fprintf(os.Stderr, "rexfuzz: fatal engine bug, input saved to %s\n", path)
			}
		}
	}
	if h.cfg.AbortOnFatal {
		h.cfg.exit(AbortExitCode)
	}
	return StatusFatal
}
