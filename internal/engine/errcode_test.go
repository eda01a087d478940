package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeFatal(t *testing.T) {
	fatal := []Code{CodeStackBug, CodeUndefinedOpcode, CodeUnexpectedOpcode, CodeParserBug}
	for _, c := range fatal {
		if !c.Fatal() {
			t.Errorf("%s must be fatal", c)
		}
	}
	recoverable := []Code{CodeBadPattern, CodeBadEncoding, CodeRetryLimit, CodeUnsupported}
	for _, c := range recoverable {
		if c.Fatal() {
			t.Errorf("%s must not be fatal", c)
		}
	}
}

func TestCodeOf(t *testing.T) {
	base := Errf(CodeRetryLimit, "search", errors.New("boom"))
	wrapped := fmt.Errorf("outer: %w", base)

	code, ok := CodeOf(wrapped)
	if !ok || code != CodeRetryLimit {
		t.Fatalf("CodeOf(wrapped) = %v, %v", code, ok)
	}
	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Fatal("CodeOf(plain) must not find a code")
	}
	if _, ok := CodeOf(nil); ok {
		t.Fatal("CodeOf(nil) must not find a code")
	}
}

func TestTrap(t *testing.T) {
	err := Trap("search", CodeStackBug, func() error {
		panic("slice bounds out of range")
	})
	code, ok := CodeOf(err)
	if !ok || code != CodeStackBug {
		t.Fatalf("Trap panic → code = %v, %v", code, ok)
	}

	sentinel := Errf(CodeBadPattern, "compile", nil)
	err = Trap("compile", CodeParserBug, func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("Trap must pass ordinary errors through, got %v", err)
	}

	if err := Trap("search", CodeStackBug, func() error { return nil }); err != nil {
		t.Fatalf("Trap nil = %v", err)
	}
}
