// Package enginetest provides a scripted engine double. It records every
// capability call in order and returns whatever the script tells it to,
// which lets tests pin the driver's escalation and short-circuit
// behaviour without a real engine.
package enginetest

import (
	"rexfuzz/internal/charenc"
	"rexfuzz/internal/engine"
)

// Script configures the double's responses. Search responses are
// positional: the first Search call gets the Self pair, the second the
// Subject pair.
type Script struct {
	OpenErr       error
	CompileErr    error
	SelfResult    engine.Result
	SelfErr       error
	SubjectResult engine.Result
	SubjectErr    error
	WellFormed    bool
}

// Engine is the scripted double. Not safe for concurrent use; tests
// drive it from a single goroutine like the harness does.
type Engine struct {
	Script   Script
	Calls    []string
	searches int
}

// New builds a double with the given script.
func New(s Script) *Engine {
	return &Engine{Script: s}
}

func (e *Engine) Name() string { return "scripted" }

// Open implements engine.Engine.
func (e *Engine) Open(_ *charenc.Encoding, _ engine.Limits) (engine.Session, error) {
	e.Calls = append(e.Calls, "open")
	if e.Script.OpenErr != nil {
		return nil, e.Script.OpenErr
	}
	return session{e}, nil
}

type session struct{ e *Engine }

func (s session) Compile(_ []byte, _ engine.Options, _ engine.Syntax) (engine.Compiled, error) {
	s.e.Calls = append(s.e.Calls, "compile")
	if s.e.Script.CompileErr != nil {
		return nil, s.e.Script.CompileErr
	}
	return compiled{s.e}, nil
}

func (s session) WellFormed(_ []byte) bool {
	s.e.Calls = append(s.e.Calls, "wellformed")
	return s.e.Script.WellFormed
}

func (s session) Close() {
	s.e.Calls = append(s.e.Calls, "close")
}

type compiled struct{ e *Engine }

func (c compiled) Search(_ []byte, _ engine.Direction) (engine.Result, error) {
	c.e.Calls = append(c.e.Calls, "search")
	c.e.searches++
	if c.e.searches == 1 {
		return c.e.Script.SelfResult, c.e.Script.SelfErr
	}
	return c.e.Script.SubjectResult, c.e.Script.SubjectErr
}

func (c compiled) Release() {
	c.e.Calls = append(c.e.Calls, "release")
}
