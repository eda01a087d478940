package testcase

import (
	"bytes"
	"reflect"
	"testing"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

// ctrl builds a control prefix for the default grammar:
// [enc][opt0][opt1][size][dir] + payload.
func ctrl(enc, opt0, opt1, size, dir byte, payload ...byte) []byte {
	return append([]byte{enc, opt0, opt1, size, dir}, payload...)
}

func TestDecodeShortInput(t *testing.T) {
	for n := 0; n < 5; n++ {
		if _, ok := Decode(make([]byte, n), Config{}); ok {
			t.Errorf("Decode(%d bytes) = ok, want skip", n)
		}
	}
	if _, ok := Decode(make([]byte, 5), Config{}); !ok {
		t.Error("Decode(5 bytes) must produce a test case")
	}
	// с выбором синтаксиса минимум на байт больше
	if _, ok := Decode(make([]byte, 5), Config{SyntaxProbe: true}); ok {
		t.Error("Decode(5 bytes, syntax probe) = ok, want skip")
	}
	if _, ok := Decode(make([]byte, 6), Config{SyntaxProbe: true}); !ok {
		t.Error("Decode(6 bytes, syntax probe) must produce a test case")
	}
}

func TestDecodePinnedKeepsFloor(t *testing.T) {
	cfg := Config{Pinned: charenc.UTF8}
	// floor stays at 5 even though only 4 control bytes are consumed
	if _, ok := Decode(make([]byte, 4), cfg); ok {
		t.Error("Decode(4 bytes, pinned) = ok, want skip")
	}
	tc, ok := Decode([]byte{0x00, 0x00, 0x03, 0xBB, 'x'}, cfg)
	if !ok {
		t.Fatal("Decode(5 bytes, pinned) failed")
	}
	if tc.Encoding != charenc.UTF8 {
		t.Errorf("pinned encoding = %s, want UTF-8", tc.Encoding.Name())
	}
	if !tc.Backward {
		t.Error("direction byte 0xBB must select backward")
	}
	// один байт остатка: patternSize = 3 % 1 = 0
	if len(tc.Pattern) != 0 || !bytes.Equal(tc.Subject, []byte("x")) {
		t.Errorf("split = %q / %q, want \"\" / \"x\"", tc.Pattern, tc.Subject)
	}
}

func TestDecodeSplitInvariant(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		cfg         Config
		wantPattern []byte
		wantSubject []byte
	}{
		{
			name:        "size selects prefix",
			data:        ctrl(0, 0, 0, 2, 0, 'a', '*', 'h', 'a', 'y'),
			wantPattern: []byte("a*"),
			wantSubject: []byte("hay"),
		},
		{
			name:        "size wraps modulo remaining",
			data:        ctrl(0, 0, 0, 7, 0, 'a', 'b', 'c', 'd', 'e'),
			wantPattern: []byte("ab"), // 7 % 5 == 2
			wantSubject: []byte("cde"),
		},
		{
			name:        "empty remainder",
			data:        ctrl(0, 0, 0, 9, 0),
			wantPattern: []byte{},
			wantSubject: []byte{},
		},
		{
			name:        "size never consumes everything",
			data:        ctrl(0, 0, 0, 3, 0, 'x', 'y', 'z'),
			wantPattern: []byte{}, // 3 % 3 == 0
			wantSubject: []byte("xyz"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, ok := Decode(tt.data, tt.cfg)
			if !ok {
				t.Fatal("Decode failed")
			}
			if !bytes.Equal(tc.Pattern, tt.wantPattern) {
				t.Errorf("Pattern = %q, want %q", tc.Pattern, tt.wantPattern)
			}
			if !bytes.Equal(tc.Subject, tt.wantSubject) {
				t.Errorf("Subject = %q, want %q", tc.Subject, tt.wantSubject)
			}
			remaining := len(tt.data) - tt.cfg.ControlBytes()
			if got := len(tc.Pattern) + len(tc.Subject); got != remaining {
				t.Errorf("pattern+subject = %d, want remaining %d", got, remaining)
			}
			if remaining > 0 && len(tc.Pattern) >= remaining {
				t.Errorf("patternSize %d must be < remaining %d", len(tc.Pattern), remaining)
			}
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	tests := []struct {
		name string
		opt0 byte
		opt1 byte
		want engine.Options
	}{
		{
			name: "top bits clear combines 16-bit mask",
			opt0: 0xFF,
			opt1: 0x01,
			want: (engine.Options(0xFF) | engine.Options(0x01)<<8) & engine.AllowedOptions,
		},
		{
			name: "allowed mask intersects",
			opt0: 0xFF,
			opt1: 0x3F,
			want: engine.AllowedOptions,
		},
		{
			name: "bit6 set falls back to ignore case",
			opt0: 0xFF,
			opt1: 0x40,
			want: engine.OptIgnoreCase,
		},
		{
			name: "bit7 set falls back to ignore case",
			opt0: 0xFE,
			opt1: 0x80,
			want: 0, // opt0 без младшего бита — даже ignore-case не выжил
		},
		{
			name: "zero pair",
			opt0: 0x00,
			opt1: 0x00,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, ok := Decode(ctrl(0, tt.opt0, tt.opt1, 0, 0, 'p'), Config{})
			if !ok {
				t.Fatal("Decode failed")
			}
			if tc.Options != tt.want {
				t.Errorf("Options = %#x, want %#x", tc.Options, tt.want)
			}
		})
	}
}

func TestDecodeDirection(t *testing.T) {
	tc, _ := Decode(ctrl(0, 0, 0, 0, 0xBB), Config{})
	if !tc.Backward || tc.Direction() != engine.Backward {
		t.Error("0xBB must select backward search")
	}
	for _, dir := range []byte{0x00, 0xBA, 0xBC, 0xFF} {
		tc, _ := Decode(ctrl(0, 0, 0, 0, dir), Config{})
		if tc.Backward {
			t.Errorf("direction byte %#x must select forward", dir)
		}
	}
}

func TestDecodeEncodingSelection(t *testing.T) {
	tc, _ := Decode(ctrl(8, 0, 0, 0, 0), Config{})
	if tc.Encoding != charenc.ASCII {
		t.Errorf("selector 8 → %s, want US-ASCII", tc.Encoding.Name())
	}
	// модульный выбор: 8 и 8+41 дают один слот
	tc2, _ := Decode(ctrl(8+41, 0, 0, 0, 0), Config{})
	if tc2.Encoding != tc.Encoding {
		t.Error("selector must wrap modulo table size")
	}
}

func TestDecodeSyntaxSelection(t *testing.T) {
	cfg := Config{SyntaxProbe: true}
	// префикс: [enc][syn][opt0][opt1][size][dir]
	tc, ok := Decode([]byte{0, 2, 0, 0, 0, 0, 'p'}, cfg)
	if !ok {
		t.Fatal("Decode failed")
	}
	if tc.Syntax != engine.SyntaxRE2 {
		t.Errorf("syntax selector 2 → %s, want re2", tc.Syntax)
	}
	// без пробы синтаксис всегда default
	tc, _ = Decode(ctrl(0, 0, 0, 0, 0, 'p'), Config{})
	if tc.Syntax != engine.SyntaxDefault {
		t.Errorf("syntax without probe = %s, want default", tc.Syntax)
	}
}

func TestDecodeFixed16Alignment(t *testing.T) {
	cfg := Config{Pinned: charenc.UTF16LE}
	// 4 управляющих байта + 7 байт полезной нагрузки
	data := []byte{0, 0, 3, 0, 'a', 0, 'b', 0, 'c', 0, 'd'}
	tc, ok := Decode(data, cfg)
	if !ok {
		t.Fatal("Decode failed")
	}
	// размер 3 % 7 = 3 → выровнен вниз до 2
	if len(tc.Pattern) != 2 {
		t.Errorf("pattern len = %d, want 2", len(tc.Pattern))
	}
	// остаток 5 байт → нечётный хвост отброшен
	if len(tc.Subject) != 4 {
		t.Errorf("subject len = %d, want 4", len(tc.Subject))
	}
}

func TestDecodeDeterministicAndPure(t *testing.T) {
	data := ctrl(9, 0x05, 0x00, 4, 0xBB, 'p', 'a', 't', 's', 'u', 'b')
	orig := bytes.Clone(data)

	a, ok := Decode(data, Config{})
	if !ok {
		t.Fatal("Decode failed")
	}
	b, _ := Decode(data, Config{})
	if !reflect.DeepEqual(a, b) {
		t.Error("Decode must be deterministic")
	}
	if !bytes.Equal(data, orig) {
		t.Error("Decode must not mutate its input")
	}
	// результат не должен разделять память с входом
	if len(a.Pattern) > 0 {
		a.Pattern[0] ^= 0xFF
		if !bytes.Equal(data, orig) {
			t.Error("TestCase must not alias the input buffer")
		}
	}
}
