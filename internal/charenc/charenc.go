// Package charenc owns the character-encoding side of test-case decoding:
// the fixed selection table, structural well-formedness checks, and the
// transcoding of pattern/subject bytes into UTF-8 for the engines.
package charenc

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// ErrMalformed reports a byte sequence that is not structurally valid
// under the encoding it was checked against.
var ErrMalformed = errors.New("charenc: malformed byte sequence")

type kind uint8

const (
	kindUTF8 kind = iota
	kindASCII
	kindSingle // single-byte charmap, every byte sequence is structurally valid
	kindMulti  // variable-width multibyte encoding
	kindUTF16LE
	kindUTF16BE
)

// Encoding describes one character encoding a test case may select.
// Instances are immutable and shared; all methods are safe for
// concurrent use.
type Encoding struct {
	name string
	kind kind
	impl encoding.Encoding // nil for UTF-8 and US-ASCII
}

// Name returns the IANA-style name of the encoding.
func (e *Encoding) Name() string { return e.name }

// Fixed16 reports whether the encoding uses fixed 16-bit code units,
// which forces even-length alignment of the pattern/subject split.
func (e *Encoding) Fixed16() bool {
	return e.kind == kindUTF16LE || e.kind == kindUTF16BE
}

// WellFormed reports whether data is a structurally valid encoded string.
// It never inspects the content beyond structure: for single-byte
// encodings every sequence is valid, for multibyte encodings the check is
// that every unit decodes without substitution.
func (e *Encoding) WellFormed(data []byte) bool {
	switch e.kind {
	case kindUTF8:
		return utf8.Valid(data)
	case kindASCII:
		for _, b := range data {
			if b >= 0x80 {
				return false
			}
		}
		return true
	case kindSingle:
		return true
	case kindUTF16LE:
		return utf16WellFormed(data, false)
	case kindUTF16BE:
		return utf16WellFormed(data, true)
	default:
		out, err := e.impl.NewDecoder().Bytes(data)
		if err != nil {
			return false
		}
		// декодер подставляет U+FFFD вместо битых последовательностей
		return !bytes.ContainsRune(out, utf8.RuneError)
	}
}

// DecodeString transcodes data to a UTF-8 string for engine consumption.
// Returns ErrMalformed when data is not well-formed; single-byte
// encodings never fail.
func (e *Encoding) DecodeString(data []byte) (string, error) {
	switch e.kind {
	case kindUTF8:
		if !utf8.Valid(data) {
			return "", ErrMalformed
		}
		return string(data), nil
	case kindASCII:
		if !e.WellFormed(data) {
			return "", ErrMalformed
		}
		return string(data), nil
	case kindSingle:
		out, err := e.impl.NewDecoder().Bytes(data)
		if err != nil {
			return "", ErrMalformed
		}
		return string(out), nil
	default:
		if !e.WellFormed(data) {
			return "", ErrMalformed
		}
		out, err := e.impl.NewDecoder().Bytes(data)
		if err != nil {
			return "", ErrMalformed
		}
		return string(out), nil
	}
}

// utf16WellFormed checks even length and surrogate pairing.
func utf16WellFormed(data []byte, bigEndian bool) bool {
	if len(data)%2 != 0 {
		return false
	}
	for i := 0; i < len(data); i += 2 {
		var u uint16
		if bigEndian {
			u = uint16(data[i])<<8 | uint16(data[i+1])
		} else {
			u = uint16(data[i+1])<<8 | uint16(data[i])
		}
		switch {
		case u >= 0xD800 && u < 0xDC00:
			// старший суррогат — обязателен парный младший
			if i+3 >= len(data) {
				return false
			}
			var lo uint16
			if bigEndian {
				lo = uint16(data[i+2])<<8 | uint16(data[i+3])
			} else {
				lo = uint16(data[i+3])<<8 | uint16(data[i+2])
			}
			if lo < 0xDC00 || lo >= 0xE000 {
				return false
			}
			i += 2
		case u >= 0xDC00 && u < 0xE000:
			return false
		}
	}
	return true
}
