package fuzztests

import "testing"

const (
	maxSeedBytes = 4 << 10 // 4 KiB — ограничение для тестового корпуса
)

// seed builds one corpus entry from the control bytes and the body that
// the splitter will carve into pattern and subject.
func seed(enc, opt0, opt1, size, dir byte, body string) []byte {
	s := append([]byte{enc, opt0, opt1, size, dir}, body...)
	return clampSeed(s)
}

func addCorpusSeeds(f *testing.F) {
	// пустой и минимальный входы
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0, 0})

	// типовые комбинации: кодировки, опции, направление
	f.Add(seed(0, 0, 0, 2, 0, "a*aaab"))              // UTF-8, simple star
	f.Add(seed(0, 1, 0, 3, 0, "abcABCabc"))           // ignore-case
	f.Add(seed(0, 0, 0, 1, 0xBB, "aXaXa"))            // backward sentinel
	f.Add(seed(8, 0, 0, 4, 0, "[a-z]+hello"))         // ASCII slot
	f.Add(seed(14, 0, 0, 1, 0, "\xC1x\xC1x\xC1"))     // KOI8-R slot
	f.Add(seed(17, 0, 0, 2, 0, "a+\x81\x40"))         // GB18030 slot
	f.Add(seed(0, 0x40, 0x80, 5, 0, "(a|b)*ababab"))  // fallback option rule
	f.Add(seed(0, 0xFF, 0x3F, 9, 0, "(?:a(b)c)+abc")) // combined option rule
	f.Add(seed(0, 0, 0, 0xFF, 0, "x"))                // size wraps modulo remainder
	f.Add(seed(0, 0, 0, 9, 0, "(unclosed"))           // compile rejection
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
