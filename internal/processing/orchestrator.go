// Package processing runs the screening pipeline over a dataset tree.
package processing

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/cache"
	"github.com/five82/vidsift/internal/capture"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/discovery"
	"github.com/five82/vidsift/internal/errors"
	"github.com/five82/vidsift/internal/logging"
	"github.com/five82/vidsift/internal/policy"
	"github.com/five82/vidsift/internal/report"
	"github.com/five82/vidsift/internal/reporter"
	"github.com/five82/vidsift/internal/sampler"
	"github.com/five82/vidsift/internal/stats"
	"github.com/five82/vidsift/internal/telemetry"
	"github.com/five82/vidsift/internal/util"
	"github.com/five82/vidsift/internal/validation"
)

// Dependencies are the collaborators of a Processor. Opener and Policy are
// required; the rest may be nil.
type Dependencies struct {
	Opener   capture.Opener
	Policy   *policy.Policy
	Cache    *cache.Store
	Metrics  *telemetry.Recorder
	Reporter reporter.Reporter
	Logger   *logging.Logger
}

// VideoOutcome is the full result of screening one video.
type VideoOutcome struct {
	Path     string
	Exercise string
	Opened   bool
	Metrics  analysis.VideoMetrics
	Result   validation.Result
	Skipped  int
	Cached   bool
	Elapsed  time.Duration
}

// RunResult contains everything a finished run produced.
type RunResult struct {
	RunID       string
	Categories  []stats.ExerciseStats
	Totals      stats.ExerciseStats
	Entries     []report.Entry
	Reports     report.Paths
	MetricsFile string
	CopyErrors  int
	Cancelled   bool
	Duration    time.Duration
}

// Processor screens videos with a fixed configuration.
type Processor struct {
	cfg     *config.Config
	deps    Dependencies
	sampler *sampler.Sampler
	opts    analysis.Options
	rep     reporter.Reporter
	log     zerolog.Logger
}

// New creates a Processor.
func New(cfg *config.Config, deps Dependencies) (*Processor, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("configuration is required", nil)
	}
	if deps.Opener == nil {
		return nil, errors.NewConfigError("a video opener is required", nil)
	}
	if deps.Policy == nil {
		return nil, errors.NewConfigError("a motion policy is required", nil)
	}

	rep := deps.Reporter
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	return &Processor{
		cfg:     cfg,
		deps:    deps,
		sampler: sampler.New(deps.Opener, cfg.Sampling, deps.Logger.Zerolog()),
		opts:    analysis.OptionsFromConfig(cfg),
		rep:     rep,
		log:     deps.Logger.Component("processing"),
	}, nil
}

// Analyze samples, measures and evaluates one video. Only context
// cancellation is returned as an error; an unreadable video is a rejected
// outcome.
func (p *Processor) Analyze(ctx context.Context, path, exercise string) (*VideoOutcome, error) {
	start := time.Now()
	motion := p.deps.Policy.MotionEnabled(exercise)
	log := p.deps.Logger.Video("processing", path)

	out := &VideoOutcome{Path: path, Exercise: exercise}

	key, cacheable := p.cacheKey(path, motion, log)
	if cacheable {
		entry, ok, err := p.deps.Cache.Get(key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("cache lookup failed")
		case ok:
			p.deps.Metrics.CacheHit()
			out.Opened = entry.Opened
			out.Metrics = entry.Metrics
			out.Skipped = entry.Skipped
			out.Cached = true
			out.Result = validation.Evaluate(entry.Metrics, entry.Issues, p.cfg.Thresholds)
			out.Elapsed = time.Since(start)
			log.Debug().Msg("metrics served from cache")
			return out, nil
		}
	}

	sampled, err := p.sampler.Sample(ctx, path)
	if err != nil {
		return nil, err
	}

	out.Opened = sampled.Opened
	out.Skipped = sampled.Samples.Skipped
	out.Metrics = analysis.Extract(analysis.Input{
		Width:  sampled.Samples.Width,
		Height: sampled.Samples.Height,
		Frames: sampled.Samples.Images(),
	}, motion, p.opts)
	out.Result = validation.Evaluate(out.Metrics, sampled.Issues, p.cfg.Thresholds)
	out.Elapsed = time.Since(start)

	if cacheable {
		entry := &cache.Entry{
			Metrics: out.Metrics,
			Issues:  sampled.Issues,
			Skipped: out.Skipped,
			Opened:  out.Opened,
		}
		if err := p.deps.Cache.Put(key, entry); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}

	log.Debug().
		Int("frames", len(sampled.Samples.Frames)).
		Int("skipped", out.Skipped).
		Str("decision", out.Result.Decision()).
		Str("reasons", out.Result.ReasonsString()).
		Dur("elapsed", out.Elapsed).
		Msg("video analyzed")

	return out, nil
}

func (p *Processor) cacheKey(path string, motion bool, log zerolog.Logger) (cache.Key, bool) {
	if p.deps.Cache == nil {
		return cache.Key{}, false
	}
	key, err := cache.KeyFor(path, p.cfg.Sampling, motion, p.opts)
	if err != nil {
		log.Warn().Err(err).Msg("cannot build cache key")
		return cache.Key{}, false
	}
	return key, true
}

// Run screens every video under cfg.InputDir. Accepted videos are copied to
// the same relative path under cfg.OutputDir and the reports are written into
// cfg.OutputDir. Videos are processed one at a time. A cancelled run stops
// between videos, still writes reports for what was processed and returns
// the partial result with a cancellation error.
func (p *Processor) Run(ctx context.Context, runID string) (*RunResult, error) {
	start := time.Now()
	cfg := p.cfg

	if util.SameDirectory(cfg.InputDir, cfg.OutputDir) {
		return nil, errors.NewPathError(fmt.Sprintf("output directory must differ from the input directory: %s", cfg.OutputDir))
	}

	found, err := discovery.FindVideoGroupsWithLogging(cfg.InputDir, p.deps.Logger, cfg.OutputDir)
	if err != nil {
		return nil, errors.NewPathError(err.Error())
	}
	if err := util.EnsureDirectory(cfg.OutputDir); err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("cannot create output directory %s", cfg.OutputDir), err)
	}
	if err := util.EnsureDirectoryWritable(cfg.OutputDir); err != nil {
		return nil, errors.NewIOError("output directory is not writable", err)
	}

	for _, werr := range found.Errors {
		p.rep.Warning(fmt.Sprintf("Skipped unreadable path: %v", werr))
	}

	p.rep.RunStarted(reporter.RunStartInfo{
		RunID:            runID,
		InputDir:         cfg.InputDir,
		OutputDir:        cfg.OutputDir,
		MotionPolicyPath: cfg.MotionPolicyPath,
		TotalFiles:       found.TotalFiles(),
		TotalCategories:  len(found.Groups),
		SkippedFiles:     found.SkippedCount,
	})
	if len(found.Groups) == 0 {
		p.rep.Warning(fmt.Sprintf("No video files found in %s", cfg.InputDir))
	}

	result := &RunResult{RunID: runID}
	agg := stats.NewAggregator()
	processed, total := 0, found.TotalFiles()

groups:
	for i, group := range found.Groups {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		groupStart := time.Now()
		agg.Begin(group.Exercise)
		p.rep.CategoryStarted(reporter.CategoryStartInfo{
			Exercise:      group.Exercise,
			RelDir:        group.RelDir,
			Files:         len(group.Files),
			MotionEnabled: p.deps.Policy.MotionEnabled(group.Exercise),
			Index:         i + 1,
			Total:         len(found.Groups),
		})

		for _, path := range group.Files {
			if ctx.Err() != nil {
				result.Cancelled = true
				p.finishCategory(agg, groupStart)
				break groups
			}

			outcome, err := p.Analyze(ctx, path, group.Exercise)
			if err != nil {
				result.Cancelled = true
				p.finishCategory(agg, groupStart)
				break groups
			}
			processed++

			entry := p.recordOutcome(found.Root, group, outcome, agg)
			if entry.CopyError != "" {
				result.CopyErrors++
			}
			result.Entries = append(result.Entries, entry)

			p.rep.VideoAnalyzed(videoResult(entry, outcome, p.copiedTo(found.Root, path, entry), processed, total))
		}

		p.finishCategory(agg, groupStart)
	}

	result.Categories = agg.Categories()
	result.Totals = agg.Totals()

	paths, err := report.WriteAll(cfg.OutputDir, result.Categories, result.Totals, result.Entries)
	if err != nil {
		return result, errors.NewIOError("cannot write reports", err)
	}
	result.Reports = paths

	if p.deps.Metrics != nil {
		metricsPath := filepath.Join(cfg.OutputDir, telemetry.TextfileName)
		if err := p.deps.Metrics.WriteTextfile(metricsPath); err != nil {
			p.rep.Warning(fmt.Sprintf("Could not write metrics file: %v", err))
		} else {
			result.MetricsFile = metricsPath
		}
	}

	result.Duration = time.Since(start)
	p.rep.RunComplete(reporter.RunSummary{
		RunID:       runID,
		Categories:  result.Categories,
		Totals:      result.Totals,
		Duration:    result.Duration,
		ReportFiles: reportFiles(paths, result.MetricsFile),
		CopyErrors:  result.CopyErrors,
		Cancelled:   result.Cancelled,
	})

	p.log.Info().
		Int("videos", result.Totals.Total).
		Int("accepted", result.Totals.Accepted).
		Int("rejected", result.Totals.Rejected).
		Bool("cancelled", result.Cancelled).
		Dur("elapsed", result.Duration).
		Msg("run complete")

	if result.Cancelled {
		return result, errors.NewCancelledError()
	}
	return result, nil
}

// recordOutcome builds the audit entry, copies an accepted video and counts
// the result.
func (p *Processor) recordOutcome(root string, group discovery.Group, o *VideoOutcome, agg *stats.Aggregator) report.Entry {
	rel, err := filepath.Rel(root, o.Path)
	if err != nil {
		rel = o.Path
	}

	entry := report.Entry{
		Exercise: group.Exercise,
		File:     filepath.Base(o.Path),
		RelPath:  filepath.ToSlash(rel),
		Opened:   o.Opened,
		Metrics:  o.Metrics,
		Result:   o.Result,
	}

	if o.Result.Accepted {
		if err := p.copyAccepted(root, o.Path); err != nil {
			entry.CopyError = err.Error()
			p.deps.Metrics.CopyFailed()
			p.log.Error().Err(err).Str("video", o.Path).Msg("copy failed")
			p.rep.Error(reporter.ReporterError{
				Title:      "Copy Error",
				Message:    fmt.Sprintf("Could not copy accepted video %s: %v", entry.File, err),
				Context:    fmt.Sprintf("File: %s", o.Path),
				Suggestion: "Check free space and permissions on the output directory",
			})
		}
	}

	agg.Record(o.Result)
	p.deps.Metrics.ObserveVideo(group.Exercise, o.Result, o.Elapsed)
	return entry
}

func (p *Processor) copyAccepted(root, path string) error {
	dst, err := util.MirrorPath(root, p.cfg.OutputDir, path)
	if err != nil {
		return err
	}
	return util.CopyFile(path, dst)
}

func (p *Processor) copiedTo(root, path string, entry report.Entry) string {
	if !entry.Result.Accepted || entry.CopyError != "" {
		return ""
	}
	dst, err := util.MirrorPath(root, p.cfg.OutputDir, path)
	if err != nil {
		return ""
	}
	return dst
}

func (p *Processor) finishCategory(agg *stats.Aggregator, start time.Time) {
	if s, ok := agg.Finish(); ok {
		p.rep.CategoryComplete(reporter.CategorySummary{Stats: s, Elapsed: time.Since(start)})
	}
}

func videoResult(entry report.Entry, o *VideoOutcome, copiedTo string, index, total int) reporter.VideoResult {
	steps := o.Result.Steps()
	repSteps := make([]reporter.ValidationStep, len(steps))
	for i, s := range steps {
		repSteps[i] = reporter.ValidationStep{Name: s.Name, Passed: s.Passed, Details: s.Details}
	}
	return reporter.VideoResult{
		Exercise: entry.Exercise,
		File:     entry.File,
		RelPath:  entry.RelPath,
		Width:    o.Metrics.Width,
		Height:   o.Metrics.Height,
		Accepted: o.Result.Accepted,
		Reasons:  o.Result.ReasonsString(),
		Steps:    repSteps,
		Cached:   o.Cached,
		Elapsed:  o.Elapsed,
		CopiedTo: copiedTo,
		Index:    index,
		Total:    total,
	}
}

func reportFiles(paths report.Paths, metricsFile string) []string {
	var files []string
	for _, f := range []string{paths.Summary, paths.Details, paths.JSONL, metricsFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}
