// Package verdict classifies engine responses. It is the only place that
// decides which error codes are ordinary rejections and which ones mean
// the engine itself is broken.
package verdict

import "rexfuzz/internal/engine"

// Verdict is the outcome tier of a single engine interaction.
type Verdict uint8

const (
	// Success: the engine found a match. A zero-width match at position
	// 0 is still Success; the match region keeps it distinguishable.
	Success Verdict = iota
	// Mismatch: an explicit no-match signal, not an error.
	Mismatch
	// RecoverableError: the engine rejected the input or exhausted a
	// budget for an ordinary reason.
	RecoverableError
	// FatalEngineBug: the engine reported an internal-consistency
	// violation. The process must terminate so the external fuzz driver
	// captures the crash signature.
	FatalEngineBug
)

func (v Verdict) String() string {
	switch v {
	case Success:
		return "success"
	case Mismatch:
		return "mismatch"
	case RecoverableError:
		return "recoverable"
	case FatalEngineBug:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps a search or compile outcome to a Verdict. err takes
// precedence over res; a nil err with res.Matched false is an explicit
// mismatch.
func Classify(res engine.Result, err error) Verdict {
	if err == nil {
		if res.Matched {
			return Success
		}
		return Mismatch
	}
	if code, ok := engine.CodeOf(err); ok && code.Fatal() {
		return FatalEngineBug
	}
	return RecoverableError
}
