package input

import "errors"

// ErrUnderrun reports a request for more bytes than the cursor holds.
// Callers are expected to bound requests by Remaining().
var ErrUnderrun = errors.New("input: cursor underrun")

// Cursor is a read-once view over a raw fuzz buffer. It hands out
// fixed-size prefixes and tracks the remaining length; advancing is the
// only mutation. The cursor is owned by the decode phase and discarded
// once a test case has been built.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps data without copying it.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Take returns the next n bytes and advances the cursor past them.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrUnderrun
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// TakeByte consumes and returns a single byte.
func (c *Cursor) TakeByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, ErrUnderrun
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Rest consumes and returns everything left in the buffer.
func (c *Cursor) Rest() []byte {
	out := c.data[c.pos:]
	c.pos = len(c.data)
	return out
}
