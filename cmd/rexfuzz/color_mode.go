package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// applyColorMode switches the global color state before any command runs.
// An invalid value falls back to auto; the command itself re-validates
// the flag and reports the error.
func applyColorMode() {
	value, err := rootCmd.PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	mode, err := readColorMode(value)
	if err != nil {
		mode = colorModeAuto
	}
	switch mode {
	case colorModeOn:
		color.NoColor = false
	case colorModeOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}
