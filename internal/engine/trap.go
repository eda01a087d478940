package engine

import "fmt"

// Trap runs fn and converts a panic escaping it into a coded error.
// A panic out of an engine call means the engine's internal state machine
// reached a condition it never expected, which is exactly the signal a
// fuzz harness exists to surface, so the code is expected to be one of
// the fatal set.
func Trap(op string, code Code, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Errf(code, op, fmt.Errorf("engine panic: %v", r))
		}
	}()
	return fn()
}
