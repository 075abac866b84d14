package reporter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/vidsift/internal/stats"
	"github.com/five82/vidsift/internal/util"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableTotalStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu          sync.Mutex
	out         io.Writer
	progressOut io.Writer
	progress    *progressbar.ProgressBar
	verbose     bool
	cyan        *color.Color
	green       *color.Color
	yellow      *color.Color
	red         *color.Color
	magenta     *color.Color
	bold        *color.Color
}

// NewTerminalReporter creates a new terminal reporter. Verbose messages are
// printed only when verbose is set.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return newTerminalReporter(os.Stdout, os.Stderr, verbose)
}

// NewTerminalReporterWithWriter creates a terminal reporter that writes all
// text to w and draws no progress bars.
func NewTerminalReporterWithWriter(w io.Writer, verbose bool) *TerminalReporter {
	return newTerminalReporter(w, io.Discard, verbose)
}

func newTerminalReporter(out, progressOut io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:         out,
		progressOut: progressOut,
		verbose:     verbose,
		cyan:        color.New(color.FgCyan, color.Bold),
		green:       color.New(color.FgGreen),
		yellow:      color.New(color.FgYellow, color.Bold),
		red:         color.New(color.FgRed, color.Bold),
		magenta:     color.New(color.FgMagenta),
		bold:        color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) RunStarted(info RunStartInfo) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SCREENING")
	r.printLabel(10, "Input:", info.InputDir)
	r.printLabel(10, "Output:", info.OutputDir)
	r.printLabel(10, "Policy:", info.MotionPolicyPath)
	r.printLabel(10, "Videos:", fmt.Sprintf("%d in %d exercise folder(s)", info.TotalFiles, info.TotalCategories))
	if info.SkippedFiles > 0 {
		r.printLabel(10, "Skipped:", fmt.Sprintf("%d non-video file(s)", info.SkippedFiles))
	}
	r.printLabel(10, "Run:", info.RunID)
}

func (r *TerminalReporter) CategoryStarted(info CategoryStartInfo) {
	r.finishProgress()

	motion := color.New(color.Faint).Sprint("motion off")
	if info.MotionEnabled {
		motion = r.magenta.Sprint("motion on")
	}
	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprintf(r.out, "%s %s (%d file(s), %s) [%d/%d]\n",
		r.cyan.Sprint("EXERCISE"), r.bold.Sprint(info.Exercise), info.Files, motion, info.Index, info.Total)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions(
		info.Files,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.progressOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Screening [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) VideoAnalyzed(result VideoResult) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Clear()
	}
	r.mu.Unlock()

	if result.Accepted {
		if r.verbose {
			_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.green.Sprint("✓"), result.File)
		}
	} else {
		_, _ = fmt.Fprintf(r.out, "  %s %s (%s)\n", r.red.Sprint("✗"), result.File, result.Reasons)
		if r.verbose {
			for _, step := range result.Steps {
				if !step.Passed {
					_, _ = fmt.Fprintf(r.out, "      %s: %s\n", step.Name, step.Details)
				}
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		r.progress.Describe(result.File)
		_ = r.progress.Add(1)
	}
}

func (r *TerminalReporter) CategoryComplete(summary CategorySummary) {
	r.finishProgress()

	s := summary.Stats
	_, _ = fmt.Fprintf(r.out, "  %s accepted, %s rejected of %d (%s) in %s\n",
		r.green.Sprint(s.Accepted),
		r.red.Sprint(s.Rejected),
		s.Total,
		util.FormatRatio(s.Accepted, s.Total),
		util.FormatElapsed(summary.Elapsed))
}

func (r *TerminalReporter) RunComplete(summary RunSummary) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SUMMARY")
	if len(summary.Categories) == 0 {
		_, _ = fmt.Fprintln(r.out, "  No videos were processed")
	} else {
		_, _ = fmt.Fprintln(r.out, SummaryTable(summary.Categories, summary.Totals))
	}

	t := summary.Totals
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d accepted", t.Accepted, t.Total))
	if summary.CopyErrors > 0 {
		_, _ = r.yellow.Fprintf(r.out, "  %d accepted video(s) could not be copied\n", summary.CopyErrors)
	}
	for _, path := range summary.ReportFiles {
		r.printLabel(8, "Report:", path)
	}
	r.printLabel(8, "Time:", util.FormatElapsed(summary.Duration))
	if summary.Cancelled {
		_, _ = r.yellow.Fprintln(r.out, "  Run was interrupted; reports cover the videos processed so far")
	}
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	w := r.out
	if w == os.Stdout {
		w = os.Stderr
	}
	_, _ = fmt.Fprintln(w)
	_, _ = r.red.Fprintf(w, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(w, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.magenta.Sprint("›"), message)
}

// SummaryTable renders the per-exercise counters with a TOTAL row.
func SummaryTable(categories []stats.ExerciseStats, totals stats.ExerciseStats) string {
	rows := make([][]string, 0, len(categories)+1)
	for _, c := range categories {
		rows = append(rows, statsRow(c))
	}
	totals.Exercise = stats.TotalLabel
	rows = append(rows, statsRow(totals))
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Exercise", "Total", "Accepted", "Rejected", "Corrupted", "Low res", "Dark", "Bright", "Blurry", "No motion").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == last:
				return tableTotalStyle
			default:
				return tableCellStyle
			}
		})
	return t.String()
}

func statsRow(s stats.ExerciseStats) []string {
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
