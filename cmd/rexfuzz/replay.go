package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rexfuzz/internal/artifact"
	"rexfuzz/internal/harness"
)

var (
	replayEngineName  string
	replayPinEncoding string
	replaySyntaxProbe bool
)

func init() {
	replayCmd.Flags().StringVar(&replayEngineName, "engine", "", "engine to drive; defaults to the one recorded in the artifact")
	replayCmd.Flags().StringVar(&replayPinEncoding, "pin-encoding", "", "pin the encoding; must match the campaign that wrote the artifact")
	replayCmd.Flags().BoolVar(&replaySyntaxProbe, "syntax-probe", false, "decode with a syntax selector byte, as the campaign did")
}

var (
	replayFatalColor = color.New(color.FgRed, color.Bold)
	replayOKColor    = color.New(color.FgGreen)
)

var replayCmd = &cobra.Command{
	Use:   "replay <artifact...>",
	Short: "Re-run saved crash records",
	Long: `Replay feeds the raw input stored in each crash record back through
the harness. A record that still produces a fatal verdict confirms the
bug reproduces; one that does not is reported as stale.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reproduced int
		for _, path := range args {
			rec, err := artifact.Read(path)
			if err != nil {
				return fmt.Errorf("failed to load %q: %w", path, err)
			}

			name := replayEngineName
			if name == "" {
				name = rec.Engine
			}
			eng, err := newEngine(name)
			if err != nil {
				return err
			}
			decode, err := decodeConfig(replayPinEncoding, replaySyntaxProbe)
			if err != nil {
				return err
			}

			h := harness.New(harness.Config{Engine: eng, Decode: decode})
			status := h.TestOneInput(rec.Input)
			if status == harness.StatusFatal {
				reproduced++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: fatal verdict reproduced (engine %s, pattern %q)\n",
					replayFatalColor.Sprint("FATAL"), path, eng.Name(), rec.Pattern)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: no longer fatal\n",
					replayOKColor.Sprint("stale"), path)
			}
		}
		if reproduced > 0 {
			return fmt.Errorf("%d of %d record(s) still fatal", reproduced, len(args))
		}
		return nil
	},
}
