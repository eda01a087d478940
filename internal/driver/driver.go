// Package driver executes decoded test cases against an engine and
// aggregates counters. One test case is fully processed before the next
// begins; all engine resources are scoped to a single execution.
package driver

import (
	"rexfuzz/internal/engine"
	"rexfuzz/internal/testcase"
	"rexfuzz/internal/verdict"
)

// Driver runs test cases. The engine session is re-opened with the same
// limits for every execution; nothing is cached across test cases.
type Driver struct {
	Engine   engine.Engine
	Limits   engine.Limits
	Counters *Counters
}

// New builds a driver with the fixed default limits.
func New(eng engine.Engine, counters *Counters) *Driver {
	return &Driver{
		Engine:   eng,
		Limits:   engine.DefaultLimits(),
		Counters: counters,
	}
}

// Exec runs one test case: compile, self-probe search over the pattern's
// own bytes, then a subject search when the subject is well-formed under
// the chosen encoding. A fatal classification at any step propagates
// immediately and skips all cleanup — the engine state may itself be
// corrupt, so no further interaction with it is safe.
func (d *Driver) Exec(tc *testcase.TestCase) verdict.Verdict {
	d.Counters.Execs++

	sess, err := d.Engine.Open(tc.Encoding, d.Limits)
	if err != nil {
		return verdict.Classify(engine.Result{}, err)
	}

	compiled, err := sess.Compile(tc.Pattern, tc.Options, tc.Syntax)
	if err != nil {
		v := verdict.Classify(engine.Result{}, err)
		if v == verdict.FatalEngineBug {
			return v
		}
		sess.Close()
		return verdict.RecoverableError
	}
	d.Counters.CompileOK++

	// байты паттерна ищем в них же самих — дешёвая проверка самосогласованности
	v := d.search(compiled, tc.Pattern, tc.Direction())
	if v == verdict.FatalEngineBug {
		return v
	}

	if sess.WellFormed(tc.Subject) {
		d.Counters.ValidSubjects++
		v = d.search(compiled, tc.Subject, tc.Direction())
		if v == verdict.FatalEngineBug {
			return v
		}
	}

	compiled.Release()
	sess.Close()
	return v
}

func (d *Driver) search(c engine.Compiled, haystack []byte, dir engine.Direction) verdict.Verdict {
	res, err := c.Search(haystack, dir)
	v := verdict.Classify(res, err)
	if v == verdict.Success && res.ZeroWidth() {
		d.Counters.ZeroWidth++
	}
	return v
}
