// Package automata adapts the coregx/coregex automata engine. coregex is
// RE2-style: no backtracking, no compile-time option flags, forward
// scanning only. The adapter emulates what it can (inline mode flags,
// backward search as last-match) and reports the rest as unsupported so
// the verdict stays recoverable.
package automata

import (
	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

type eng struct{}

// New returns the automata engine.
func New() engine.Engine { return eng{} }

func (eng) Name() string { return "automata" }

func (eng) Open(enc *charenc.Encoding, lim engine.Limits) (engine.Session, error) {
	cfg := coregex.DefaultConfig()
	cfg.MaxRecursionDepth = clamp(lim.ParseDepth, 10, 1000)
	cfg.MaxDFAStates = uint32(clamp(lim.RetryLimit, 1, 1_000_000))
	return &session{enc: enc, cfg: cfg}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type session struct {
	enc *charenc.Encoding
	cfg meta.Config
}

func (s *session) WellFormed(data []byte) bool {
	return s.enc.WellFormed(data)
}

func (s *session) Close() {}

// supported is the slice of the option mask coregex can honour, via
// inline mode flags.
const supported = engine.OptIgnoreCase | engine.OptMultiline | engine.OptSingleline

func (s *session) Compile(pattern []byte, opts engine.Options, syn engine.Syntax) (engine.Compiled, error) {
	if syn != engine.SyntaxDefault && syn != engine.SyntaxRE2 {
		return nil, engine.Errf(engine.CodeUnsupported, "compile", nil)
	}
	if opts&^supported != 0 {
		return nil, engine.Errf(engine.CodeUnsupported, "compile", nil)
	}

	expr, err := s.enc.DecodeString(pattern)
	if err != nil {
		return nil, engine.Errf(engine.CodeBadEncoding, "compile", err)
	}
	expr = flagPrefix(opts) + expr

	var re *coregex.Regex
	err = engine.Trap("compile", engine.CodeParserBug, func() error {
		var cerr error
		re, cerr = coregex.CompileWithConfig(expr, s.cfg)
		return cerr
	})
	if err != nil {
		if _, coded := engine.CodeOf(err); coded {
			return nil, err
		}
		return nil, engine.Errf(engine.CodeBadPattern, "compile", err)
	}
	return &compiled{sess: s, re: re}, nil
}

func flagPrefix(opts engine.Options) string {
	flags := ""
	if opts&engine.OptIgnoreCase != 0 {
		flags += "i"
	}
	if opts&engine.OptMultiline != 0 {
		flags += "m"
	}
	if opts&engine.OptSingleline != 0 {
		flags += "s"
	}
	if flags == "" {
		return ""
	}
	return "(?" + flags + ")"
}

type compiled struct {
	sess *session
	re   *coregex.Regex
}

func (c *compiled) Release() {
	c.re = nil
}

func (c *compiled) Search(haystack []byte, dir engine.Direction) (engine.Result, error) {
	hay, err := c.sess.enc.DecodeString(haystack)
	if err != nil {
		return engine.Result{}, engine.Errf(engine.CodeBadEncoding, "search", err)
	}

	var loc []int
	err = engine.Trap("search", engine.CodeStackBug, func() error {
		if dir == engine.Backward {
			// поиск с конца эмулируем последним совпадением
			locs := c.re.FindAllIndex([]byte(hay), -1)
			if len(locs) > 0 {
				loc = locs[len(locs)-1]
			}
			return nil
		}
		loc = c.re.FindIndex([]byte(hay))
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}
	if loc == nil {
		return engine.Result{}, nil
	}
	return engine.Result{Matched: true, Start: loc[0], End: loc[1]}, nil
}
