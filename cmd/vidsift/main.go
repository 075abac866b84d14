// Package main provides the CLI entry point for vidsift.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/vidsift/internal/cache"
	"github.com/five82/vidsift/internal/capture"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/errors"
	"github.com/five82/vidsift/internal/logging"
	"github.com/five82/vidsift/internal/policy"
	"github.com/five82/vidsift/internal/processing"
	"github.com/five82/vidsift/internal/report"
	"github.com/five82/vidsift/internal/reporter"
	"github.com/five82/vidsift/internal/telemetry"
	"github.com/five82/vidsift/internal/util"
)

const (
	appName    = "vidsift"
	appVersion = "0.1.0"
)

// globalArgs holds the flags shared by all commands.
type globalArgs struct {
	configFile   string
	motionPolicy string
	verbose      bool
	frames       int
	stride       int
}

// cleanArgs holds the parsed arguments for the clean command.
type cleanArgs struct {
	inputDir  string
	outputDir string
	logDir    string
	cacheDir  string
	jsonOut   bool
	noLog     bool
	noMetrics bool
}

// analyzeArgs holds the parsed arguments for the analyze command.
type analyzeArgs struct {
	category string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var ga globalArgs

	root := &cobra.Command{
		Use:           appName,
		Short:         "Screen exercise video datasets for training",
		Long:          "vidsift samples every video in a dataset tree, rejects dark, bright, blurry, low resolution,\nunreadable or static clips and copies the rest into a mirrored output tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ga.configFile, "config", "", "YAML config file (default: ./vidsift.yaml if present)")
	pf.StringVar(&ga.motionPolicy, "motion-policy", "", fmt.Sprintf("Motion policy JSON file. Default: %s", config.DefaultMotionPolicyFile))
	pf.BoolVarP(&ga.verbose, "verbose", "v", false, "Enable verbose output for troubleshooting")
	pf.IntVar(&ga.frames, "frames", config.DefaultNumFrames, "Frames sampled per video")
	pf.IntVar(&ga.stride, "stride", config.DefaultFrameStride, "Distance in frames between samples")

	root.AddCommand(newCleanCmd(&ga), newAnalyzeCmd(&ga), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
}

func newCleanCmd(ga *globalArgs) *cobra.Command {
	var ca cleanArgs

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Screen a dataset and copy accepted videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, ga, &ca)
			if err != nil {
				return err
			}
			return executeClean(cmd.Context(), cfg, &ca)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ca.inputDir, "input", "i", "", fmt.Sprintf("Dataset directory. Default: %s", config.DefaultDatasetDir))
	f.StringVarP(&ca.outputDir, "output", "o", "", fmt.Sprintf("Output directory. Default: %s", config.DefaultCleanedDir))
	f.StringVarP(&ca.logDir, "log-dir", "l", "", "Log directory (defaults to OUTPUT/logs)")
	f.StringVar(&ca.cacheDir, "cache-dir", "", "Reuse metrics of unchanged videos from this directory")
	f.BoolVar(&ca.jsonOut, "json", false, "Emit NDJSON progress events on stdout")
	f.BoolVar(&ca.noLog, "no-log", false, "Disable log file creation")
	f.BoolVar(&ca.noMetrics, "no-metrics", false, "Do not write the Prometheus metrics file")
	return cmd
}

func newAnalyzeCmd(ga *globalArgs) *cobra.Command {
	var aa analyzeArgs

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Measure one video and print its verdict as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, ga, nil)
			if err != nil {
				return err
			}
			category := aa.category
			if category == "" {
				category = filepath.Base(filepath.Dir(args[0]))
			}
			return executeAnalyze(cmd, cfg, args[0], category)
		},
	}

	cmd.Flags().StringVar(&aa.category, "category", "", "Exercise label (defaults to the parent directory name)")
	return cmd
}

// buildConfig loads the config file and environment, then applies the flags
// that were set explicitly, and validates the result.
func buildConfig(cmd *cobra.Command, ga *globalArgs, ca *cleanArgs) (*config.Config, error) {
	cfg, err := config.Load(ga.configFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, ga, ca)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, ga *globalArgs, ca *cleanArgs) {
	flags := cmd.Flags()
	if flags.Changed("motion-policy") {
		cfg.MotionPolicyPath = ga.motionPolicy
	}
	if flags.Changed("verbose") {
		cfg.Verbose = ga.verbose
	}
	if flags.Changed("frames") {
		cfg.Sampling.NumFrames = ga.frames
	}
	if flags.Changed("stride") {
		cfg.Sampling.Stride = ga.stride
	}
	if ca == nil {
		return
	}
	if flags.Changed("input") {
		cfg.InputDir = ca.inputDir
	}
	if flags.Changed("output") {
		cfg.OutputDir = ca.outputDir
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = ca.logDir
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = ca.cacheDir
	}
	if flags.Changed("no-log") {
		cfg.NoLog = ca.noLog
	}
}

func executeClean(ctx context.Context, cfg *config.Config, ca *cleanArgs) error {
	inputDir, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return errors.NewPathError(fmt.Sprintf("input directory does not exist: %s", inputDir))
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if util.SameDirectory(inputDir, outputDir) {
		return errors.NewPathError(fmt.Sprintf("output directory must differ from the input directory: %s", outputDir))
	}
	cfg.InputDir, cfg.OutputDir = inputDir, outputDir

	// The policy is loaded before anything is written.
	pol, err := policy.Load(cfg.MotionPolicyPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(outputDir, "logs")
	}
	logger, err := logging.Setup(logDir, cfg.Verbose, cfg.NoLog, runID)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Info("Input directory: %s", inputDir)
	logger.Info("Output directory: %s", outputDir)
	logger.Info("Motion policy: %s (%d exercise(s))", cfg.MotionPolicyPath, pol.Len())
	logger.Info("Sampling: %d frame(s), stride %d", cfg.Sampling.NumFrames, cfg.Sampling.Stride)
	logger.Info("Thresholds: min %dx%d, brightness %.0f-%.0f, sharpness >= %.0f",
		cfg.Thresholds.MinWidth, cfg.Thresholds.MinHeight,
		cfg.Thresholds.MinBrightness, cfg.Thresholds.MaxBrightness, cfg.Thresholds.MinSharpness)

	rep := buildReporter(ca.jsonOut, cfg.Verbose)

	deps := processing.Dependencies{
		Opener:   capture.NewFFmpegOpener(logger.Zerolog()),
		Policy:   pol,
		Reporter: rep,
		Logger:   logger,
	}
	if !ca.noMetrics {
		deps.Metrics = telemetry.NewRecorder()
	}
	if cfg.Cache.Dir != "" {
		store, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		deps.Cache = store
		logger.Info("Metrics cache: %s", cfg.Cache.Dir)
	}

	proc, err := processing.New(cfg, deps)
	if err != nil {
		return err
	}

	res, err := proc.Run(ctx, runID)
	if err != nil {
		if errors.IsCancelled(err) && res != nil {
			logger.Warn("Run cancelled after %d video(s)", len(res.Entries))
		}
		return err
	}
	return nil
}

// buildReporter returns the terminal reporter, or with --json the NDJSON
// stream on stdout paired with plain terminal lines on stderr.
func buildReporter(jsonOut, verbose bool) reporter.Reporter {
	if !jsonOut {
		return reporter.NewTerminalReporter(verbose)
	}
	return reporter.NewCompositeReporter(
		reporter.NewJSONReporter(),
		reporter.NewTerminalReporterWithWriter(os.Stderr, verbose),
	)
}

func executeAnalyze(cmd *cobra.Command, cfg *config.Config, path, category string) error {
	pol, err := policy.Load(cfg.MotionPolicyPath)
	if err != nil {
		return err
	}

	proc, err := processing.New(cfg, processing.Dependencies{
		Opener: capture.NewFFmpegOpener(zerolog.Nop()),
		Policy: pol,
	})
	if err != nil {
		return err
	}

	out, err := proc.Analyze(cmd.Context(), path, category)
	if err != nil {
		return err
	}

	entry := report.Entry{
		Exercise: category,
		File:     filepath.Base(path),
		RelPath:  path,
		Opened:   out.Opened,
		Metrics:  out.Metrics,
		Result:   out.Result,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report.NewRecord(entry))
}
