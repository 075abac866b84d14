// Package vidsift screens exercise video datasets for training.
//
// Each video is sampled at a fixed stride, measured for resolution,
// brightness, sharpness and (for exercises that need it) motion, and then
// accepted or rejected. Accepted videos are copied into a mirrored output
// tree next to a per-exercise summary and a per-file audit log.
//
// Basic usage:
//
//	screener, err := vidsift.New(
//	    vidsift.WithMotionPolicy("exercise_motion_overview.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := screener.Screen(ctx, "dataset/", "cleaned_dataset/", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Accepted %d of %d videos\n",
//	    summary.Totals.Accepted, summary.Totals.Total)
package vidsift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/cache"
	"github.com/five82/vidsift/internal/capture"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/policy"
	"github.com/five82/vidsift/internal/processing"
	"github.com/five82/vidsift/internal/reporter"
	"github.com/five82/vidsift/internal/stats"
	"github.com/five82/vidsift/internal/telemetry"
)

// Re-exported types.
type (
	Thresholds    = config.Thresholds
	Sampling      = config.Sampling
	Motion        = config.Motion
	VideoMetrics  = analysis.VideoMetrics
	ExerciseStats = stats.ExerciseStats
)

// Screener is the main entry point for dataset screening.
type Screener struct {
	config *config.Config
	policy *policy.Policy
	opener capture.Opener
}

// Summary contains the result of a screening run.
type Summary struct {
	RunID       string
	Exercises   []ExerciseStats
	Totals      ExerciseStats
	ReportFiles []string
	CopyErrors  int
	Cancelled   bool
	Duration    time.Duration
}

// VideoReport contains the verdict for one video.
type VideoReport struct {
	Exercise string
	Metrics  VideoMetrics
	Accepted bool
	Reasons  []string
	Failures []string
}

// Option configures the screener.
type Option func(*Screener)

// New creates a new Screener with the given options.
func New(opts ...Option) (*Screener, error) {
	s := &Screener{config: config.NewConfig(".", ".", ".")}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// WithThresholds replaces the acceptance thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *Screener) {
		s.config.Thresholds = t
	}
}

// WithSampling sets how many frames are sampled and their stride.
func WithSampling(numFrames, stride int) Option {
	return func(s *Screener) {
		s.config.Sampling = Sampling{NumFrames: numFrames, Stride: stride}
	}
}

// WithMotion replaces the motion detection parameters.
func WithMotion(m Motion) Option {
	return func(s *Screener) {
		s.config.Motion = m
	}
}

// WithMotionPolicy sets the JSON motion policy file read by Screen.
func WithMotionPolicy(path string) Option {
	return func(s *Screener) {
		s.config.MotionPolicyPath = path
	}
}

// WithMotionPolicyMap uses an in-memory motion policy instead of a file.
func WithMotionPolicyMap(m map[string]bool) Option {
	return func(s *Screener) {
		s.policy = policy.New(m)
	}
}

// WithCacheDir enables the metrics cache in dir.
func WithCacheDir(dir string) Option {
	return func(s *Screener) {
		s.config.Cache.Dir = dir
	}
}

// WithMaxAnalysisWidth downscales wider frames before measuring.
func WithMaxAnalysisWidth(width int) Option {
	return func(s *Screener) {
		s.config.Analysis.MaxWidth = width
	}
}

// WithFrameHash toggles the perceptual hash of the first sampled frame.
func WithFrameHash(enable bool) Option {
	return func(s *Screener) {
		s.config.Analysis.FrameHash = enable
	}
}

func (s *Screener) loadPolicy() (*policy.Policy, error) {
	if s.policy != nil {
		return s.policy, nil
	}
	return policy.Load(s.config.MotionPolicyPath)
}

func (s *Screener) videoOpener() capture.Opener {
	if s.opener != nil {
		return s.opener
	}
	return capture.NewFFmpegOpener(zerolog.Nop())
}

// Screen screens every video under inputDir, copying accepted videos and
// writing reports into outputDir. The motion policy is loaded before
// anything is written.
func (s *Screener) Screen(ctx context.Context, inputDir, outputDir string, handler EventHandler) (*Summary, error) {
	pol, err := s.loadPolicy()
	if err != nil {
		return nil, err
	}

	cfg := *s.config
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir

	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}

	deps := processing.Dependencies{
		Opener:   s.videoOpener(),
		Policy:   pol,
		Metrics:  telemetry.NewRecorder(),
		Reporter: rep,
	}
	if cfg.Cache.Dir != "" {
		store, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		deps.Cache = store
	}

	proc, err := processing.New(&cfg, deps)
	if err != nil {
		return nil, err
	}

	res, runErr := proc.Run(ctx, uuid.NewString())
	if res == nil {
		return nil, runErr
	}
	return &Summary{
		RunID:       res.RunID,
		Exercises:   res.Categories,
		Totals:      res.Totals,
		ReportFiles: files(res),
		CopyErrors:  res.CopyErrors,
		Cancelled:   res.Cancelled,
		Duration:    res.Duration,
	}, runErr
}

// Analyze screens a single video as if it belonged to exercise. Nothing is
// copied or written.
func (s *Screener) Analyze(ctx context.Context, path, exercise string) (*VideoReport, error) {
	pol, err := s.loadPolicy()
	if err != nil {
		return nil, err
	}

	proc, err := processing.New(s.config, processing.Dependencies{
		Opener: s.videoOpener(),
		Policy: pol,
	})
	if err != nil {
		return nil, err
	}

	out, err := proc.Analyze(ctx, path, exercise)
	if err != nil {
		return nil, err
	}

	reasons := make([]string, len(out.Result.Reasons))
	for i, r := range out.Result.Reasons {
		reasons[i] = string(r)
	}
	return &VideoReport{
		Exercise: exercise,
		Metrics:  out.Metrics,
		Accepted: out.Result.Accepted,
		Reasons:  reasons,
		Failures: out.Result.GetFailures(),
	}, nil
}

func files(res *processing.RunResult) []string {
	var out []string
	for _, f := range []string{res.Reports.Summary, res.Reports.Details, res.Reports.JSONL, res.MetricsFile} {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
