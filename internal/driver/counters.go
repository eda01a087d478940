package driver

// Counters is the process-scoped execution context: monotonically
// increasing counts, initialized once, incremented only by the single
// execution path. It is an explicit object rather than package state so
// tests can swap in a fresh one.
type Counters struct {
	// Inputs counts raw buffers received at the harness boundary,
	// including ones too short to decode.
	Inputs int64
	// Execs counts driver executions attempted.
	Execs int64
	// CompileOK counts successful pattern compiles.
	CompileOK int64
	// ValidSubjects counts subjects found well-formed under their
	// chosen encoding.
	ValidSubjects int64
	// ZeroWidth counts successful searches whose match consumed no
	// input; kept separate so zero-width success stays observable.
	ZeroWidth int64
}
