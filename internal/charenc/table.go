package charenc

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Predefined encodings. UTF8 dominates the selection table so that most
// selector bytes land on it; the rest give the fuzzer occasional exposure
// to legacy single-byte and multibyte encodings.
var (
	UTF8    = &Encoding{name: "UTF-8", kind: kindUTF8}
	ASCII   = &Encoding{name: "US-ASCII", kind: kindASCII}
	EUCJP   = &Encoding{name: "EUC-JP", kind: kindMulti, impl: japanese.EUCJP}
	EUCKR   = &Encoding{name: "EUC-KR", kind: kindMulti, impl: korean.EUCKR}
	GBK     = &Encoding{name: "GBK", kind: kindMulti, impl: simplifiedchinese.GBK}
	GB18030 = &Encoding{name: "GB18030", kind: kindMulti, impl: simplifiedchinese.GB18030}
	Big5    = &Encoding{name: "Big5", kind: kindMulti, impl: traditionalchinese.Big5}
	ShiftJIS = &Encoding{
		name: "Shift_JIS", kind: kindMulti, impl: japanese.ShiftJIS,
	}
	KOI8R      = &Encoding{name: "KOI8-R", kind: kindSingle, impl: charmap.KOI8R}
	CP1251     = &Encoding{name: "Windows-1251", kind: kindSingle, impl: charmap.Windows1251}
	Windows874 = &Encoding{name: "Windows-874", kind: kindSingle, impl: charmap.Windows874}

	ISO8859_1  = &Encoding{name: "ISO-8859-1", kind: kindSingle, impl: charmap.ISO8859_1}
	ISO8859_2  = &Encoding{name: "ISO-8859-2", kind: kindSingle, impl: charmap.ISO8859_2}
	ISO8859_3  = &Encoding{name: "ISO-8859-3", kind: kindSingle, impl: charmap.ISO8859_3}
	ISO8859_4  = &Encoding{name: "ISO-8859-4", kind: kindSingle, impl: charmap.ISO8859_4}
	ISO8859_5  = &Encoding{name: "ISO-8859-5", kind: kindSingle, impl: charmap.ISO8859_5}
	ISO8859_6  = &Encoding{name: "ISO-8859-6", kind: kindSingle, impl: charmap.ISO8859_6}
	ISO8859_7  = &Encoding{name: "ISO-8859-7", kind: kindSingle, impl: charmap.ISO8859_7}
	ISO8859_8  = &Encoding{name: "ISO-8859-8", kind: kindSingle, impl: charmap.ISO8859_8}
	ISO8859_9  = &Encoding{name: "ISO-8859-9", kind: kindSingle, impl: charmap.ISO8859_9}
	ISO8859_10 = &Encoding{name: "ISO-8859-10", kind: kindSingle, impl: charmap.ISO8859_10}
	ISO8859_13 = &Encoding{name: "ISO-8859-13", kind: kindSingle, impl: charmap.ISO8859_13}
	ISO8859_14 = &Encoding{name: "ISO-8859-14", kind: kindSingle, impl: charmap.ISO8859_14}
	ISO8859_15 = &Encoding{name: "ISO-8859-15", kind: kindSingle, impl: charmap.ISO8859_15}
	ISO8859_16 = &Encoding{name: "ISO-8859-16", kind: kindSingle, impl: charmap.ISO8859_16}

	UTF16LE = &Encoding{
		name: "UTF-16LE", kind: kindUTF16LE,
		impl: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	}
	UTF16BE = &Encoding{
		name: "UTF-16BE", kind: kindUTF16BE,
		impl: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	}
)

// table is the fixed selection table. Selection is selector % len(table),
// so the order and the repetitions are load-bearing: reordering changes
// which encoding a given selector byte picks, and saved corpora depend on
// that. Do not reorder or resize casually.
//
// Slots that named EUC-TW, EUC-CN and ISO-8859-11 in earlier corpora hold
// Big5, GBK and Windows-874 respectively.
var table = [...]*Encoding{
	UTF8, UTF8, UTF8, UTF8, UTF8, UTF8, UTF8, UTF8,
	ASCII,
	EUCJP,
	Big5,
	EUCKR,
	GBK,
	ShiftJIS,
	KOI8R,
	CP1251,
	Big5,
	GB18030,
	UTF8, UTF8, UTF8, UTF8, UTF8, UTF8, UTF8, UTF8,
	ISO8859_1, ISO8859_2, ISO8859_3, ISO8859_4, ISO8859_5,
	ISO8859_6, ISO8859_7, ISO8859_8, ISO8859_9, ISO8859_10,
	Windows874,
	ISO8859_13, ISO8859_14, ISO8859_15, ISO8859_16,
}

// Pick selects an encoding from the table by a control byte. Every byte
// value is a valid selector.
func Pick(selector byte) *Encoding {
	return table[int(selector)%len(table)]
}

// TableSize returns the number of slots in the selection table.
func TableSize() int { return len(table) }

// byName indexes every selectable or pinnable encoding.
var byName = func() map[string]*Encoding {
	m := make(map[string]*Encoding)
	for _, e := range table {
		m[e.name] = e
	}
	m[UTF16LE.name] = UTF16LE
	m[UTF16BE.name] = UTF16BE
	return m
}()

// ByName resolves an encoding by its name, for pinning via configuration.
func ByName(name string) (*Encoding, bool) {
	e, ok := byName[name]
	return e, ok
}
