// Package backtrack adapts the dlclark/regexp2 backtracking engine to the
// harness capability surface. It is the default engine: the only one in
// the pack that understands right-to-left search and a PCRE-sized option
// set, which gives the fuzzer the widest reachable surface.
package backtrack

import (
	"time"

	"github.com/dlclark/regexp2"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

type eng struct{}

// New returns the backtracking engine.
func New() engine.Engine { return eng{} }

func (eng) Name() string { return "backtrack" }

// Open starts a session for one test case. regexp2 exposes no parse
// depth or call nesting knobs; the retry budget is the binding limit and
// maps onto the match timeout.
func (eng) Open(enc *charenc.Encoding, lim engine.Limits) (engine.Session, error) {
	return &session{enc: enc, lim: lim}, nil
}

type session struct {
	enc *charenc.Encoding
	lim engine.Limits
}

func (s *session) WellFormed(data []byte) bool {
	return s.enc.WellFormed(data)
}

func (s *session) Close() {}

func (s *session) Compile(pattern []byte, opts engine.Options, syn engine.Syntax) (engine.Compiled, error) {
	expr, err := s.enc.DecodeString(pattern)
	if err != nil {
		return nil, engine.Errf(engine.CodeBadEncoding, "compile", err)
	}
	ropts := mapOptions(opts, syn)

	var re *regexp2.Regexp
	err = engine.Trap("compile", engine.CodeParserBug, func() error {
		var cerr error
		re, cerr = regexp2.Compile(expr, ropts)
		return cerr
	})
	if err != nil {
		if _, coded := engine.CodeOf(err); coded {
			return nil, err
		}
		return nil, engine.Errf(engine.CodeBadPattern, "compile", err)
	}
	re.MatchTimeout = s.timeout()

	return &compiled{sess: s, expr: expr, opts: ropts, fwd: re}, nil
}

// timeout converts the integer retry budget into regexp2's wall-clock
// budget at 1µs per retry step.
func (s *session) timeout() time.Duration {
	return time.Duration(s.lim.RetryLimit) * time.Microsecond
}

// mapOptions translates the harness bitmask onto regexp2 modes. Bits
// regexp2 has no counterpart for (find-longest, find-not-empty,
// negate-singleline, capture-group) pass through silently: the engine
// behaves as if they were unset, which keeps the recoverable/success
// distribution useful instead of rejecting most option pairs.
func mapOptions(opts engine.Options, syn engine.Syntax) regexp2.RegexOptions {
	var o regexp2.RegexOptions
	if opts&engine.OptIgnoreCase != 0 {
		o |= regexp2.IgnoreCase
	}
	if opts&engine.OptExtend != 0 {
		o |= regexp2.IgnorePatternWhitespace
	}
	if opts&engine.OptMultiline != 0 {
		o |= regexp2.Multiline
	}
	if opts&engine.OptSingleline != 0 {
		o |= regexp2.Singleline
	}
	if opts&engine.OptDontCaptureGroup != 0 {
		o |= regexp2.ExplicitCapture
	}
	switch syn {
	case engine.SyntaxECMAScript:
		o |= regexp2.ECMAScript
	case engine.SyntaxRE2:
		o |= regexp2.RE2
	case engine.SyntaxUnicode:
		o |= regexp2.Unicode
	}
	return o
}

type compiled struct {
	sess *session
	expr string
	opts regexp2.RegexOptions
	fwd  *regexp2.Regexp
	bwd  *regexp2.Regexp // compiled on first backward search
}

func (c *compiled) Release() {
	c.fwd = nil
	c.bwd = nil
}

func (c *compiled) Search(haystack []byte, dir engine.Direction) (engine.Result, error) {
	hay, err := c.sess.enc.DecodeString(haystack)
	if err != nil {
		return engine.Result{}, engine.Errf(engine.CodeBadEncoding, "search", err)
	}

	re, err := c.pick(dir)
	if err != nil {
		return engine.Result{}, err
	}

	var m *regexp2.Match
	err = engine.Trap("search", engine.CodeStackBug, func() error {
		var merr error
		m, merr = re.FindStringMatch(hay)
		return merr
	})
	if err != nil {
		if _, coded := engine.CodeOf(err); coded {
			return engine.Result{}, err
		}
		// regexp2 возвращает ошибку только при исчерпании таймаута
		return engine.Result{}, engine.Errf(engine.CodeRetryLimit, "search", err)
	}
	if m == nil {
		return engine.Result{}, nil
	}
	return engine.Result{Matched: true, Start: m.Index, End: m.Index + m.Length}, nil
}

// pick returns the variant for the requested direction. regexp2 fixes
// right-to-left at compile time, so the backward variant is compiled
// lazily from the already-validated expression.
func (c *compiled) pick(dir engine.Direction) (*regexp2.Regexp, error) {
	if dir == engine.Forward {
		return c.fwd, nil
	}
	if c.bwd == nil {
		var re *regexp2.Regexp
		err := engine.Trap("compile", engine.CodeParserBug, func() error {
			var cerr error
			re, cerr = regexp2.Compile(c.expr, c.opts|regexp2.RightToLeft)
			return cerr
		})
		if err != nil {
			if _, coded := engine.CodeOf(err); coded {
				return nil, err
			}
			return nil, engine.Errf(engine.CodeBadPattern, "search", err)
		}
		re.MatchTimeout = c.sess.timeout()
		c.bwd = re
	}
	return c.bwd, nil
}
