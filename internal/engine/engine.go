// Package engine defines the capability surface the harness drives a
// regular-expression engine through: open a session for one encoding,
// compile a pattern, search a haystack, validate encoded strings, and
// release everything again. Adapters live in subpackages; the harness
// core never depends on a concrete engine.
package engine

import "rexfuzz/internal/charenc"

// Direction selects forward or backward search.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Syntax names a regex dialect a test case may request. Adapters map
// the ones they understand onto engine modes and reject the rest as
// unsupported.
type Syntax uint8

const (
	SyntaxDefault Syntax = iota
	SyntaxECMAScript
	SyntaxRE2
	SyntaxUnicode
)

func (s Syntax) String() string {
	switch s {
	case SyntaxECMAScript:
		return "ecmascript"
	case SyntaxRE2:
		return "re2"
	case SyntaxUnicode:
		return "unicode"
	default:
		return "default"
	}
}

// Options is the harness-level compile option bitmask. The bit layout is
// part of the decode grammar: saved corpora encode these exact values.
type Options uint16

const (
	OptIgnoreCase Options = 1 << iota
	OptExtend
	OptMultiline
	OptSingleline
	OptFindLongest
	OptFindNotEmpty
	OptNegateSingleline
	OptDontCaptureGroup
	OptCaptureGroup
)

// AllowedOptions is the mask a decoded 16-bit option pair is intersected
// with before it reaches an engine.
const AllowedOptions = OptIgnoreCase | OptExtend | OptMultiline |
	OptSingleline | OptFindLongest | OptFindNotEmpty |
	OptNegateSingleline | OptDontCaptureGroup | OptCaptureGroup

// Limits bounds the worst-case cost of a single test case. They are
// applied identically on every Open; adapters map them onto whatever
// knobs their engine exposes.
type Limits struct {
	ParseDepth    int
	RetryLimit    int
	CallNestLevel int
}

// DefaultLimits returns the fixed per-test-case limits.
func DefaultLimits() Limits {
	return Limits{
		ParseDepth:    8,
		RetryLimit:    5000,
		CallNestLevel: 8,
	}
}

// Result is a fresh match region, allocated per Search call. A zero-width
// match (Start == End) is deliberately distinguishable from a mismatch.
type Result struct {
	Matched bool
	Start   int
	End     int
}

// ZeroWidth reports a match that consumed no input.
func (r Result) ZeroWidth() bool { return r.Matched && r.Start == r.End }

// Engine creates per-test-case sessions. Implementations must be
// stateless across sessions: the harness intentionally re-opens the
// engine for every test case to keep internal caches isolated.
type Engine interface {
	Name() string
	Open(enc *charenc.Encoding, lim Limits) (Session, error)
}

// Session is the engine state for a single test case.
type Session interface {
	Compile(pattern []byte, opts Options, syn Syntax) (Compiled, error)
	// WellFormed validates a byte sequence under the session's encoding
	// without decoding its content.
	WellFormed(data []byte) bool
	Close()
}

// Compiled is a compiled pattern. Release must be safe to call exactly
// once; Search must acquire and release its scratch state internally on
// every exit path.
type Compiled interface {
	Search(haystack []byte, dir Direction) (Result, error)
	Release()
}
