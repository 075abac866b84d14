// Package report writes the summary table and the per-file audit log of a
// screening run.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/stats"
	"github.com/five82/vidsift/internal/validation"
)

// Output file names, relative to the output root.
const (
	SummaryFile = "cleaning_report.csv"
	DetailsFile = "exercise_analysis_report.csv"
	JSONLFile   = "exercise_analysis_report.jsonl"
)

// Decimal places used when rounding audit log values.
const (
	brightnessDecimals = 2
	sharpnessDecimals  = 2
	activePctDecimals  = 4
	changeDecimals     = 6
)

// SummaryHeader is the header row of the summary table.
var SummaryHeader = []string{
	"Exercise",
	"total_videos",
	"accepted_videos",
	"rejected_videos",
	"corrupted_files",
	"low_resolution",
	"too_dark",
	"too_bright",
	"blurry",
	"insufficient_motion",
}

// DetailsHeader is the header row of the audit log.
var DetailsHeader = []string{
	"exercise",
	"file",
	"width",
	"height",
	"brightness",
	"sharpness",
	"motion_flag",
	"motion_detected",
	"motion_pairs",
	"motion_active_pairs",
	"motion_active_frame_pct",
	"motion_mean_change_ratio",
	"motion_max_change_ratio",
	"decision",
	"reasons",
	"frame_hash",
	"copy_error",
}

// Entry is one audit log line.
type Entry struct {
	Exercise string
	// File is the base name of the video.
	File string
	// RelPath is the video path relative to the input root.
	RelPath string
	// Opened is false when the video could not be opened at all. Its
	// dimensions and motion fields are then undefined.
	Opened  bool
	Metrics analysis.VideoMetrics
	Result  validation.Result

	CopyError string
}

// Round rounds v half-to-even at the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}

func roundNull(v analysis.NullFloat, decimals int) analysis.NullFloat {
	if !v.Valid {
		return v
	}
	return analysis.Float(Round(v.Float64, decimals))
}

// Record is the serialized form of an Entry.
type Record struct {
	Exercise              string              `json:"exercise"`
	File                  string              `json:"file"`
	Path                  string              `json:"path,omitempty"`
	Width                 *int                `json:"width"`
	Height                *int                `json:"height"`
	Brightness            analysis.NullFloat  `json:"brightness"`
	Sharpness             analysis.NullFloat  `json:"sharpness"`
	MotionFlag            *bool               `json:"motion_flag"`
	MotionDetected        *bool               `json:"motion_detected"`
	MotionPairs           *int                `json:"motion_pairs"`
	MotionActivePairs     *int                `json:"motion_active_pairs"`
	MotionActiveFramePct  analysis.NullFloat  `json:"motion_active_frame_pct"`
	MotionMeanChangeRatio analysis.NullFloat  `json:"motion_mean_change_ratio"`
	MotionMaxChangeRatio  analysis.NullFloat  `json:"motion_max_change_ratio"`
	Decision              string              `json:"decision"`
	Reasons               string              `json:"reasons"`
	ReasonList            []validation.Reason `json:"reason_list"`
	FrameHash             string              `json:"frame_hash,omitempty"`
	CopyError             string              `json:"copy_error,omitempty"`
}

// NewRecord rounds and flattens e.
func NewRecord(e Entry) Record {
	m := e.Metrics
	rec := Record{
		Exercise:              e.Exercise,
		File:                  e.File,
		Path:                  e.RelPath,
		Brightness:            roundNull(m.Brightness, brightnessDecimals),
		Sharpness:             roundNull(m.Sharpness, sharpnessDecimals),
		MotionActiveFramePct:  roundNull(m.MotionActiveFramePct, activePctDecimals),
		MotionMeanChangeRatio: roundNull(m.MotionMeanChangeRatio, changeDecimals),
		MotionMaxChangeRatio:  roundNull(m.MotionMaxChangeRatio, changeDecimals),
		Decision:              e.Result.Decision(),
		Reasons:               e.Result.ReasonsString(),
		ReasonList:            e.Result.Reasons,
		FrameHash:             m.FrameHash,
		CopyError:             e.CopyError,
	}
	if rec.ReasonList == nil {
		rec.ReasonList = []validation.Reason{}
	}
	if e.Opened {
		rec.Width = &m.Width
		rec.Height = &m.Height
		rec.MotionFlag = &m.MotionFlag
		rec.MotionDetected = &m.MotionDetected
		rec.MotionPairs = &m.MotionPairs
		rec.MotionActivePairs = &m.MotionActivePairs
	}
	return rec
}

func (r Record) csvRow() []string {
	return []string{
		r.Exercise,
		r.File,
		formatInt(r.Width),
		formatInt(r.Height),
		formatFloat(r.Brightness),
		formatFloat(r.Sharpness),
		formatBool(r.MotionFlag),
		formatBool(r.MotionDetected),
		formatInt(r.MotionPairs),
		formatInt(r.MotionActivePairs),
		formatFloat(r.MotionActiveFramePct),
		formatFloat(r.MotionMeanChangeRatio),
		formatFloat(r.MotionMaxChangeRatio),
		r.Decision,
		r.Reasons,
		r.FrameHash,
		r.CopyError,
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatFloat(v analysis.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func summaryRow(s stats.ExerciseStats) []string {
	return []string{
		s.Exercise,
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Accepted),
		strconv.Itoa(s.Rejected),
		strconv.Itoa(s.CorruptedFiles),
		strconv.Itoa(s.LowResolution),
		strconv.Itoa(s.TooDark),
		strconv.Itoa(s.TooBright),
		strconv.Itoa(s.Blurry),
		strconv.Itoa(s.InsufficientMotion),
	}
}

// WriteSummaryCSV writes one row per exercise followed by the TOTAL row.
func WriteSummaryCSV(path string, categories []stats.ExerciseStats, totals stats.ExerciseStats) error {
	rows := make([][]string, 0, len(categories)+2)
	rows = append(rows, SummaryHeader)
	for _, c := range categories {
		rows = append(rows, summaryRow(c))
	}
	totals.Exercise = stats.TotalLabel
	rows = append(rows, summaryRow(totals))
	return writeCSV(path, rows)
}

// WriteDetailsCSV writes the audit log as CSV.
func WriteDetailsCSV(path string, entries []Entry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, DetailsHeader)
	for _, e := range entries {
		rows = append(rows, NewRecord(e).csvRow())
	}
	return writeCSV(path, rows)
}

// WriteJSONL writes the audit log as one JSON object per line.
func WriteJSONL(path string, entries []Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(NewRecord(e)); err != nil {
			return fmt.Errorf("encode record for %s: %w", e.File, err)
		}
	}
	return w.Flush()
}

func writeCSV(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Paths lists the report files written by WriteAll.
type Paths struct {
	Summary string
	Details string
	JSONL   string
}

// WriteAll writes every report into outputDir. The summary is written when
// at least one exercise was finished; the audit log when it has entries.
func WriteAll(outputDir string, categories []stats.ExerciseStats, totals stats.ExerciseStats, entries []Entry) (Paths, error) {
	var paths Paths
	if len(categories) > 0 {
		p := filepath.Join(outputDir, SummaryFile)
		if err := WriteSummaryCSV(p, categories, totals); err != nil {
			return paths, err
		}
		paths.Summary = p
	}
	if len(entries) > 0 {
		p := filepath.Join(outputDir, DetailsFile)
		if err := WriteDetailsCSV(p, entries); err != nil {
			return paths, err
		}
		paths.Details = p

		p = filepath.Join(outputDir, JSONLFile)
		if err := WriteJSONL(p, entries); err != nil {
			return paths, err
		}
		paths.JSONL = p
	}
	return paths, nil
}
