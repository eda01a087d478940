package main

import (
	"fmt"
	"strings"

	"rexfuzz/internal/engine"
	"rexfuzz/internal/engine/automata"
	"rexfuzz/internal/engine/backtrack"
)

// newEngine resolves an engine by name. The empty name means the
// default backtracking engine.
func newEngine(name string) (engine.Engine, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", "backtrack":
		return backtrack.New(), nil
	case "automata":
		return automata.New(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (expected backtrack|automata)", name)
	}
}
