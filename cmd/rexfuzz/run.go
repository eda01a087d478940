package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rexfuzz/internal/charenc"
	"rexfuzz/internal/driver"
	"rexfuzz/internal/engine"
	"rexfuzz/internal/harness"
	"rexfuzz/internal/observ"
	"rexfuzz/internal/testcase"
)

var (
	runEngineName   string
	runJobs         int
	runStatsEvery   time.Duration
	runArtifactDir  string
	runPinEncoding  string
	runSyntaxProbe  bool
	runAbortOnFatal bool
)

func init() {
	runCmd.Flags().StringVar(&runEngineName, "engine", "backtrack", "engine to drive (backtrack|automata)")
	runCmd.Flags().IntVar(&runJobs, "jobs", 1, "number of parallel workers, one harness each")
	runCmd.Flags().DurationVar(&runStatsEvery, "stats", 0, "print counter snapshots at this interval (0 disables)")
	runCmd.Flags().StringVar(&runArtifactDir, "artifact-dir", "", "directory for crash records on fatal verdicts")
	runCmd.Flags().StringVar(&runPinEncoding, "pin-encoding", "", "pin the encoding; its selector byte is then not consumed")
	runCmd.Flags().BoolVar(&runSyntaxProbe, "syntax-probe", false, "add a syntax selector byte to the control prefix")
	runCmd.Flags().BoolVar(&runAbortOnFatal, "abort-on-fatal", false, "terminate the process on the first fatal verdict")
}

var runCmd = &cobra.Command{
	Use:   "run [inputs...]",
	Short: "Feed corpus inputs through the harness",
	Long: `Run decodes each input into a regex test case and drives the engine
through it. Arguments are files or directories of corpus inputs; with no
arguments one input is read from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, statsEvery, err := assembleRunConfig(cmd)
		if err != nil {
			return err
		}

		inputs, err := collectInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		var total driver.Counters
		var fatals int64

		if runJobs <= 1 {
			fatals = runSequential(cfg, inputs, &total, statsEvery)
		} else {
			fatals = runParallel(cfg, inputs, &total, runJobs)
		}

		if !quiet {
			fmt.Fprint(cmd.OutOrStdout(), observ.Take(&total).Summary())
		}
		if fatals > 0 {
			return fmt.Errorf("%d input(s) triggered a fatal engine bug", fatals)
		}
		return nil
	},
}

// assembleRunConfig layers the settings: defaults, then rexfuzz.toml,
// then explicit flags.
func assembleRunConfig(cmd *cobra.Command) (harness.Config, time.Duration, error) {
	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return harness.Config{}, 0, err
	}

	engineName := runEngineName
	pinName := runPinEncoding
	probe := runSyntaxProbe
	artifactDir := runArtifactDir
	abort := runAbortOnFatal
	limits := engine.DefaultLimits()
	statsEvery := runStatsEvery

	if found {
		h := manifest.Config.Harness
		if manifest.IsSet("harness", "engine") && !cmd.Flags().Changed("engine") {
			engineName = h.Engine
		}
		if manifest.IsSet("harness", "pinned_encoding") && !cmd.Flags().Changed("pin-encoding") {
			pinName = h.PinnedEncoding
		}
		if manifest.IsSet("harness", "syntax_probe") && !cmd.Flags().Changed("syntax-probe") {
			probe = h.SyntaxProbe
		}
		if manifest.IsSet("harness", "artifact_dir") && !cmd.Flags().Changed("artifact-dir") {
			// относительный путь привязан к каталогу манифеста
			artifactDir = h.ArtifactDir
			if artifactDir != "" && !filepath.IsAbs(artifactDir) {
				artifactDir = filepath.Join(manifest.Root, artifactDir)
			}
		}
		if manifest.IsSet("harness", "abort_on_fatal") && !cmd.Flags().Changed("abort-on-fatal") {
			abort = h.AbortOnFatal
		}
		if manifest.IsSet("limits", "parse_depth") {
			limits.ParseDepth = manifest.Config.Limits.ParseDepth
		}
		if manifest.IsSet("limits", "retry_limit") {
			limits.RetryLimit = manifest.Config.Limits.RetryLimit
		}
		if manifest.IsSet("limits", "call_nest_level") {
			limits.CallNestLevel = manifest.Config.Limits.CallNestLevel
		}
		if manifest.IsSet("stats", "interval") && !cmd.Flags().Changed("stats") {
			statsEvery, _ = time.ParseDuration(manifest.Config.Stats.Interval)
		}
	}

	eng, err := newEngine(engineName)
	if err != nil {
		return harness.Config{}, 0, err
	}
	decode, err := decodeConfig(pinName, probe)
	if err != nil {
		return harness.Config{}, 0, err
	}
	return harness.Config{
		Engine:       eng,
		Limits:       limits,
		Decode:       decode,
		ArtifactDir:  artifactDir,
		AbortOnFatal: abort,
	}, statsEvery, nil
}

func decodeConfig(pinName string, probe bool) (testcase.Config, error) {
	cfg := testcase.Config{SyntaxProbe: probe}
	if name := strings.TrimSpace(pinName); name != "" {
		enc, ok := charenc.ByName(name)
		if !ok {
			return testcase.Config{}, fmt.Errorf("unknown encoding %q", name)
		}
		cfg.Pinned = enc
	}
	return cfg, nil
}

// collectInputs reads every argument into memory: files as-is,
// directories recursively. With no arguments stdin is the single input.
func collectInputs(args []string, stdin io.Reader) ([][]byte, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return [][]byte{data}, nil
	}

	var inputs [][]byte
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to read %q: %w", arg, err)
			}
			inputs = append(inputs, data)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			// #nosec G304 -- path comes from a user-supplied corpus walk
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", path, err)
			}
			inputs = append(inputs, data)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func runSequential(cfg harness.Config, inputs [][]byte, total *driver.Counters, statsEvery time.Duration) int64 {
	h := harness.New(cfg)
	reporter := observ.NewReporter(os.Stderr, h.Counters(), statsEvery)
	var fatals int64
	for _, input := range inputs {
		if h.TestOneInput(input) == harness.StatusFatal {
			fatals++
		}
		reporter.Tick()
	}
	addCounters(total, h.Counters())
	return fatals
}

// runParallel fans the inputs out over jobs workers. Each worker owns
// its harness: counters are merged once at the end, never shared.
func runParallel(cfg harness.Config, inputs [][]byte, total *driver.Counters, jobs int) int64 {
	var g errgroup.Group
	work := make(chan []byte)
	var fatals int64
	harnesses := make([]*harness.Harness, jobs)

	for i := 0; i < jobs; i++ {
		h := harness.New(cfg)
		harnesses[i] = h
		g.Go(func() error {
			for input := range work {
				if h.TestOneInput(input) == harness.StatusFatal {
					atomic.AddInt64(&fatals, 1)
				}
			}
			return nil
		})
	}
	for _, input := range inputs {
		work <- input
	}
	close(work)
	_ = g.Wait()

	for _, h := range harnesses {
		addCounters(total, h.Counters())
	}
	return atomic.LoadInt64(&fatals)
}

func addCounters(dst, src *driver.Counters) {
	dst.Inputs += src.Inputs
	dst.Execs += src.Execs
	dst.CompileOK += src.CompileOK
	dst.ValidSubjects += src.ValidSubjects
	dst.ZeroWidth += src.ZeroWidth
}
