// Package testcase turns a raw fuzz buffer into a structured test case:
// encoding, syntax, option flags, search direction, pattern and subject.
// Decoding is a pure, total function of the input bytes — every byte
// value is a valid selector — and its grammar is byte-for-byte stable so
// that saved corpora stay reproducible.
package testcase

import (
	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

const (
	// minControlBytes is the length floor below which an input is not a
	// test case at all. The floor stays at 5 even when the encoding is
	// pinned and its selector byte is never consumed; corpora were
	// collected against that behaviour.
	minControlBytes = 5

	// backwardSentinel flips the search direction when it matches the
	// direction control byte exactly.
	backwardSentinel = 0xBB
)

// Config selects the decode grammar variant.
type Config struct {
	// Pinned, when non-nil, fixes the encoding; the encoding selector
	// byte is then not part of the control prefix.
	Pinned *charenc.Encoding
	// SyntaxProbe adds a syntax selector byte to the control prefix.
	// Off by default: every test case then uses the default dialect.
	SyntaxProbe bool
}

// MinControlBytes returns the shortest input length Decode accepts under cfg.
func (c Config) MinControlBytes() int {
	if c.SyntaxProbe {
		return minControlBytes + 1
	}
	return minControlBytes
}

// ControlBytes returns how many control bytes Decode actually consumes
// under cfg before splitting pattern and subject.
func (c Config) ControlBytes() int {
	n := minControlBytes
	if c.SyntaxProbe {
		n++
	}
	if c.Pinned != nil {
		n--
	}
	return n
}

// TestCase is one decoded execution: everything the driver needs to run
// the engine once. Pattern and Subject are copies; a TestCase never
// aliases the fuzz buffer it was decoded from.
type TestCase struct {
	Encoding *charenc.Encoding
	Syntax   engine.Syntax
	Options  engine.Options
	Backward bool
	Pattern  []byte
	Subject  []byte
}

// Direction converts the decoded backward flag.
func (tc *TestCase) Direction() engine.Direction {
	if tc.Backward {
		return engine.Backward
	}
	return engine.Forward
}
