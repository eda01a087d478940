package backtrack

import (
	"testing"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

func open(t *testing.T, enc *charenc.Encoding) engine.Session {
	t.Helper()
	sess, err := New().Open(enc, engine.DefaultLimits())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return sess
}

func compile(t *testing.T, sess engine.Session, pattern string, opts engine.Options, syn engine.Syntax) engine.Compiled {
	t.Helper()
	c, err := sess.Compile([]byte(pattern), opts, syn)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return c
}

func TestSearchStarPattern(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	c := compile(t, sess, "a*", 0, engine.SyntaxDefault)
	defer c.Release()

	// "a*" на "aaab": жадное совпадение с начала, не нулевой ширины
	res, err := c.Search([]byte("aaab"), engine.Forward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched || res.Start != 0 || res.End != 3 || res.ZeroWidth() {
		t.Errorf("Search(aaab) = %+v, want match [0,3)", res)
	}

	// на "bbb" — совпадение нулевой ширины в нуле; это Success, не Mismatch
	res, err = c.Search([]byte("bbb"), engine.Forward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched || !res.ZeroWidth() || res.Start != 0 {
		t.Errorf("Search(bbb) = %+v, want zero-width match at 0", res)
	}
}

func TestSearchMismatch(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	c := compile(t, sess, "x+", 0, engine.SyntaxDefault)
	defer c.Release()

	res, err := c.Search([]byte("aaab"), engine.Forward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Matched {
		t.Errorf("Search = %+v, want explicit mismatch", res)
	}
}

func TestSearchBackwardFindsLastMatch(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	c := compile(t, sess, "a", 0, engine.SyntaxDefault)
	defer c.Release()

	res, err := c.Search([]byte("aba"), engine.Backward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched || res.Start != 2 {
		t.Errorf("backward Search(aba) = %+v, want match at 2", res)
	}
}

func TestIgnoreCaseOption(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	c := compile(t, sess, "abc", engine.OptIgnoreCase, engine.SyntaxDefault)
	defer c.Release()

	res, err := c.Search([]byte("xxABCxx"), engine.Forward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched {
		t.Error("ignore-case search must match ABC")
	}
}

func TestCompileBadPattern(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()

	_, err := sess.Compile([]byte("(unclosed"), 0, engine.SyntaxDefault)
	code, ok := engine.CodeOf(err)
	if !ok || code != engine.CodeBadPattern {
		t.Fatalf("Compile err = %v, want CodeBadPattern", err)
	}
	if code.Fatal() {
		t.Error("bad pattern must stay recoverable")
	}
}

func TestCompileBadEncoding(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()

	_, err := sess.Compile([]byte{0xFF, 0xFE}, 0, engine.SyntaxDefault)
	code, ok := engine.CodeOf(err)
	if !ok || code != engine.CodeBadEncoding {
		t.Fatalf("Compile err = %v, want CodeBadEncoding", err)
	}
}

func TestSearchBadEncodingHaystack(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	c := compile(t, sess, "a", 0, engine.SyntaxDefault)
	defer c.Release()

	_, err := c.Search([]byte{0xC3}, engine.Forward)
	code, ok := engine.CodeOf(err)
	if !ok || code != engine.CodeBadEncoding {
		t.Fatalf("Search err = %v, want CodeBadEncoding", err)
	}
}

func TestWellFormedDelegatesToEncoding(t *testing.T) {
	sess := open(t, charenc.UTF8)
	defer sess.Close()
	if !sess.WellFormed([]byte("ok")) {
		t.Error("valid UTF-8 reported malformed")
	}
	if sess.WellFormed([]byte{0xFF}) {
		t.Error("invalid UTF-8 reported well-formed")
	}
}

func TestSearchUnderLegacyEncoding(t *testing.T) {
	// KOI8-R: 0xC1 декодируется в кириллическую 'а';
	// и паттерн, и строка приходят в байтах выбранной кодировки
	sess := open(t, charenc.KOI8R)
	defer sess.Close()
	c, err := sess.Compile([]byte{0xC1}, 0, engine.SyntaxDefault)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer c.Release()

	res, err := c.Search([]byte{0xC1}, engine.Forward)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Matched {
		t.Error("KOI8-R haystack must match the decoded pattern")
	}
}
