package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/five82/vidsift/internal/stats"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) RunStarted(info RunStartInfo) {
	r.write(map[string]any{
		"type":            "run_started",
		"run_id":          info.RunID,
		"input_dir":       info.InputDir,
		"output_dir":      info.OutputDir,
		"motion_policy":   info.MotionPolicyPath,
		"total_files":     info.TotalFiles,
		"total_exercises": info.TotalCategories,
		"skipped_files":   info.SkippedFiles,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) CategoryStarted(info CategoryStartInfo) {
	r.write(map[string]any{
		"type":           "exercise_started",
		"exercise":       info.Exercise,
		"dir":            info.RelDir,
		"files":          info.Files,
		"motion_enabled": info.MotionEnabled,
		"index":          info.Index,
		"total":          info.Total,
		"timestamp":      r.timestamp(),
	})
}

func (r *JSONReporter) VideoAnalyzed(result VideoResult) {
	steps := make([]map[string]any, len(result.Steps))
	for i, step := range result.Steps {
		steps[i] = map[string]any{
			"step":    step.Name,
			"passed":  step.Passed,
			"details": step.Details,
		}
	}

	decision := "rejected"
	if result.Accepted {
		decision = "accepted"
	}

	event := map[string]any{
		"type":             "video_analyzed",
		"exercise":         result.Exercise,
		"file":             result.File,
		"path":             result.RelPath,
		"width":            result.Width,
		"height":           result.Height,
		"decision":         decision,
		"reasons":          result.Reasons,
		"validation_steps": steps,
		"cached":           result.Cached,
		"elapsed_ms":       result.Elapsed.Milliseconds(),
		"index":            result.Index,
		"total":            result.Total,
		"timestamp":        r.timestamp(),
	}
	if result.CopiedTo != "" {
		event["copied_to"] = result.CopiedTo
	}
	r.write(event)
}

func statsEvent(s stats.ExerciseStats) map[string]any {
	return map[string]any{
		"exercise":            s.Exercise,
		"total_videos":        s.Total,
		"accepted_videos":     s.Accepted,
		"rejected_videos":     s.Rejected,
		"corrupted_files":     s.CorruptedFiles,
		"low_resolution":      s.LowResolution,
		"too_dark":            s.TooDark,
		"too_bright":          s.TooBright,
		"blurry":              s.Blurry,
		"insufficient_motion": s.InsufficientMotion,
	}
}

func (r *JSONReporter) CategoryComplete(summary CategorySummary) {
	event := statsEvent(summary.Stats)
	event["type"] = "exercise_complete"
	event["duration_seconds"] = summary.Elapsed.Seconds()
	event["timestamp"] = r.timestamp()
	r.write(event)
}

func (r *JSONReporter) RunComplete(summary RunSummary) {
	categories := make([]map[string]any, len(summary.Categories))
	for i, c := range summary.Categories {
		categories[i] = statsEvent(c)
	}

	r.write(map[string]any{
		"type":                   "run_complete",
		"run_id":                 summary.RunID,
		"exercises":              categories,
		"totals":                 statsEvent(summary.Totals),
		"report_files":           summary.ReportFiles,
		"copy_errors":            summary.CopyErrors,
		"cancelled":              summary.Cancelled,
		"total_duration_seconds": int64(summary.Duration.Seconds()),
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

// Verbose messages are not part of the event stream.
func (r *JSONReporter) Verbose(string) {}
