package testcase

import (
	"bytes"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
	"rexfuzz/internal/input"
)

// syntaxTable is the fixed dialect selection table. Like the encoding
// table, its order is part of the decode grammar.
var syntaxTable = [...]engine.Syntax{
	engine.SyntaxDefault,
	engine.SyntaxECMAScript,
	engine.SyntaxRE2,
	engine.SyntaxUnicode,
}

// Decode consumes the control-byte prefix and splits the remainder into
// pattern and subject. It returns false when data is shorter than the
// minimum control-byte count: such inputs are not test cases, not errors.
func Decode(data []byte, cfg Config) (*TestCase, bool) {
	if len(data) < cfg.MinControlBytes() {
		return nil, false
	}

	cur := input.NewCursor(data)

	enc := cfg.Pinned
	if enc == nil {
		b, err := cur.TakeByte()
		if err != nil {
			return nil, false
		}
		enc = charenc.Pick(b)
	}

	syn := engine.SyntaxDefault
	if cfg.SyntaxProbe {
		b, err := cur.TakeByte()
		if err != nil {
			return nil, false
		}
		syn = syntaxTable[int(b)%len(syntaxTable)]
	}

	opt0, err := cur.TakeByte()
	if err != nil {
		return nil, false
	}
	opt1, err := cur.TakeByte()
	if err != nil {
		return nil, false
	}

	sizeByte, err := cur.TakeByte()
	if err != nil {
		return nil, false
	}
	dirByte, err := cur.TakeByte()
	if err != nil {
		return nil, false
	}

	remaining := cur.Remaining()
	patternSize := 0
	if remaining > 0 {
		patternSize = int(sizeByte) % remaining
		if enc.Fixed16() && patternSize%2 == 1 {
			patternSize--
		}
	}

	pattern, err := cur.Take(patternSize)
	if err != nil {
		return nil, false
	}
	subject := cur.Rest()
	if enc.Fixed16() && len(subject)%2 == 1 {
		// выравнивание по 16-битным единицам: хвостовой байт отбрасываем
		subject = subject[:len(subject)-1]
	}

	return &TestCase{
		Encoding: enc,
		Syntax:   syn,
		Options:  combineOptions(opt0, opt1),
		Backward: dirByte == backwardSentinel,
		Pattern:  bytes.Clone(pattern),
		Subject:  bytes.Clone(subject),
	}, true
}

// combineOptions applies the asymmetric option rule: a second control
// byte with both top bits clear combines into a 16-bit mask, anything
// else falls back to the ignore-case bit alone. Most random byte pairs
// would otherwise produce nonsensical multi-bit combinations.
func combineOptions(opt0, opt1 byte) engine.Options {
	if opt1&0xC0 == 0 {
		return engine.Options(uint16(opt0)|uint16(opt1)<<8) & engine.AllowedOptions
	}
	return engine.Options(opt0) & engine.OptIgnoreCase
}
