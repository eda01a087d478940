package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rexfuzz/internal/engine"
	"rexfuzz/internal/testcase"
)

var (
	decodeFormat      string
	decodePinEncoding string
	decodeSyntaxProbe bool
)

func init() {
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "pretty", "output format (pretty|json)")
	decodeCmd.Flags().StringVar(&decodePinEncoding, "pin-encoding", "", "pin the encoding; its selector byte is then not consumed")
	decodeCmd.Flags().BoolVar(&decodeSyntaxProbe, "syntax-probe", false, "add a syntax selector byte to the control prefix")
}

type decodePayload struct {
	Encoding string `json:"encoding"`
	Syntax   string `json:"syntax"`
	Options  string `json:"options"`
	Flags    string `json:"flags,omitempty"`
	Backward bool   `json:"backward"`
	Pattern  string `json:"pattern"`
	Subject  string `json:"subject"`
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Show how an input splits into a regex test case",
	Long: `Decode prints the test case an input produces without running any
engine: the selected encoding, syntax, option flags, search direction,
and the pattern/subject split. With no argument the input is read from
stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(decodeFormat) {
		case "pretty", "json":
			// supported
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", decodeFormat)
		}

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", args[0], err)
			}
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}

		cfg, err := decodeConfig(decodePinEncoding, decodeSyntaxProbe)
		if err != nil {
			return err
		}
		tc, ok := testcase.Decode(data, cfg)
		if !ok {
			return fmt.Errorf("input is %d bytes, below the %d-byte test case floor", len(data), cfg.MinControlBytes())
		}

		if strings.ToLower(decodeFormat) == "json" {
			return renderDecodeJSON(cmd.OutOrStdout(), tc)
		}
		renderDecodePretty(cmd.OutOrStdout(), tc)
		return nil
	},
}

func renderDecodePretty(out io.Writer, tc *testcase.TestCase) {
	fmt.Fprintf(out, "encoding:  %s\n", tc.Encoding.Name())
	fmt.Fprintf(out, "syntax:    %s\n", tc.Syntax)
	fmt.Fprintf(out, "options:   %#04x", uint16(tc.Options))
	if names := optionNames(tc.Options); names != "" {
		fmt.Fprintf(out, " (%s)", names)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "direction: %s\n", tc.Direction())
	fmt.Fprintf(out, "pattern:   %q (%d bytes)\n", tc.Pattern, len(tc.Pattern))
	fmt.Fprintf(out, "subject:   %q (%d bytes)\n", tc.Subject, len(tc.Subject))
}

func renderDecodeJSON(out io.Writer, tc *testcase.TestCase) error {
	payload := decodePayload{
		Encoding: tc.Encoding.Name(),
		Syntax:   tc.Syntax.String(),
		Options:  fmt.Sprintf("%#04x", uint16(tc.Options)),
		Flags:    optionNames(tc.Options),
		Backward: tc.Backward,
		Pattern:  string(tc.Pattern),
		Subject:  string(tc.Subject),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

var optionNameTable = []struct {
	bit  engine.Options
	name string
}{
	{engine.OptIgnoreCase, "ignorecase"},
	{engine.OptExtend, "extend"},
	{engine.OptMultiline, "multiline"},
	{engine.OptSingleline, "singleline"},
	{engine.OptFindLongest, "find-longest"},
	{engine.OptFindNotEmpty, "find-not-empty"},
	{engine.OptNegateSingleline, "negate-singleline"},
	{engine.OptDontCaptureGroup, "dont-capture-group"},
	{engine.OptCaptureGroup, "capture-group"},
}

func optionNames(opts engine.Options) string {
	var names []string
	for _, e := range optionNameTable {
		if opts&e.bit != 0 {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, ",")
}
