// Package testkit holds invariant checkers shared by fuzz targets and
// property tests.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"rexfuzz/internal/testcase"
)

// CheckDecodeInvariants runs a minimal set of decode invariants on a
// decoded test case:
// 1) pattern and subject together account for every byte after the
// control prefix (minus at most one alignment byte for 16-bit encodings)
// 2) pattern and subject are verbatim copies of the raw input at their
// respective offsets
// 3) decoding the same bytes again yields the same test case
func CheckDecodeInvariants(raw []byte, cfg testcase.Config, tc *testcase.TestCase) error {
	if tc == nil {
		return fmt.Errorf("nil test case")
	}
	if len(raw) < cfg.MinControlBytes() {
		return fmt.Errorf("decoded a %d-byte input below the %d-byte floor", len(raw), cfg.MinControlBytes())
	}

	// 1) the split accounts for the whole remainder
	remaining := len(raw) - cfg.ControlBytes()
	slack := 0
	if tc.Encoding.Fixed16() {
		slack = 1
	}
	got := len(tc.Pattern) + len(tc.Subject)
	if got != remaining && got != remaining-slack {
		return fmt.Errorf("pattern %d + subject %d does not cover remainder %d", len(tc.Pattern), len(tc.Subject), remaining)
	}
	// размер паттерна — это байт по модулю остатка, он не влезает в uint8
	// только при нарушении грамматики
	if _, err := safecast.Conv[uint8](len(tc.Pattern)); err != nil {
		return fmt.Errorf("pattern size overflow: %w", err)
	}

	// 2) pattern and subject are copies of the raw bytes
	off := cfg.ControlBytes()
	if !bytes.Equal(tc.Pattern, raw[off:off+len(tc.Pattern)]) {
		return fmt.Errorf("pattern is not a verbatim copy of the input")
	}
	off += len(tc.Pattern)
	if !bytes.Equal(tc.Subject, raw[off:off+len(tc.Subject)]) {
		return fmt.Errorf("subject is not a verbatim copy of the input")
	}

	// 3) decode is deterministic
	again, ok := testcase.Decode(raw, cfg)
	if !ok {
		return fmt.Errorf("second decode rejected the same input")
	}
	if again.Encoding != tc.Encoding || again.Syntax != tc.Syntax ||
		again.Options != tc.Options || again.Backward != tc.Backward ||
		!bytes.Equal(again.Pattern, tc.Pattern) || !bytes.Equal(again.Subject, tc.Subject) {
		return fmt.Errorf("decode is not deterministic: %+v vs %+v", again, tc)
	}
	return nil
}
