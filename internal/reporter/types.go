// Package reporter provides progress reporting interfaces and implementations.
package reporter

import (
	"time"

	"github.com/five82/vidsift/internal/stats"
)

// RunStartInfo describes a screening run before any video is processed.
type RunStartInfo struct {
	RunID            string
	InputDir         string
	OutputDir        string
	MotionPolicyPath string
	TotalFiles       int
	TotalCategories  int
	SkippedFiles     int
}

// CategoryStartInfo describes the exercise about to be processed.
type CategoryStartInfo struct {
	Exercise      string
	RelDir        string
	Files         int
	MotionEnabled bool
	Index         int
	Total         int
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// VideoResult is the outcome for one video.
type VideoResult struct {
	Exercise string
	File     string
	RelPath  string
	Width    int
	Height   int
	Accepted bool
	Reasons  string
	Steps    []ValidationStep
	Cached   bool
	Elapsed  time.Duration
	CopiedTo string
	Index    int
	Total    int
}

// CategorySummary contains the finished counters for one exercise.
type CategorySummary struct {
	Stats   stats.ExerciseStats
	Elapsed time.Duration
}

// RunSummary contains run completion information.
type RunSummary struct {
	RunID       string
	Categories  []stats.ExerciseStats
	Totals      stats.ExerciseStats
	Duration    time.Duration
	ReportFiles []string
	CopyErrors  int
	Cancelled   bool
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}
