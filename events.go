package vidsift

import (
	"time"

	"github.com/five82/vidsift/internal/reporter"
)

// EventType identifies an Event.
type EventType string

// Event types delivered to an EventHandler.
const (
	EventTypeExerciseStarted  EventType = "exercise_started"
	EventTypeVideoAnalyzed    EventType = "video_analyzed"
	EventTypeExerciseComplete EventType = "exercise_complete"
	EventTypeRunComplete      EventType = "run_complete"
	EventTypeWarning          EventType = "warning"
	EventTypeError            EventType = "error"
)

// Event is a progress notification from Screen.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// EventHandler receives events. Its error is ignored.
type EventHandler func(Event) error

// BaseEvent carries the fields common to all events.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ExerciseStartedEvent is sent before the first video of an exercise folder.
type ExerciseStartedEvent struct {
	BaseEvent
	Exercise      string
	Files         int
	MotionEnabled bool
}

// VideoAnalyzedEvent is sent after each video is evaluated.
type VideoAnalyzedEvent struct {
	BaseEvent
	Exercise string
	File     string
	Accepted bool
	Reasons  string
	CopiedTo string
	Current  int
	Total    int
}

// ExerciseCompleteEvent is sent after the last video of an exercise folder.
type ExerciseCompleteEvent struct {
	BaseEvent
	Stats ExerciseStats
}

// RunCompleteEvent is sent once all reports are written.
type RunCompleteEvent struct {
	BaseEvent
	Totals      ExerciseStats
	ReportFiles []string
	Cancelled   bool
}

// WarningEvent carries a non-fatal warning.
type WarningEvent struct {
	BaseEvent
	Message string
}

// ErrorEvent carries a per-video error that did not stop the run.
type ErrorEvent struct {
	BaseEvent
	Title      string
	Message    string
	Context    string
	Suggestion string
}

func base(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: time.Now()}
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) RunStarted(reporter.RunStartInfo) {}

func (r *eventReporter) CategoryStarted(info reporter.CategoryStartInfo) {
	_ = r.handler(ExerciseStartedEvent{
		BaseEvent:     base(EventTypeExerciseStarted),
		Exercise:      info.Exercise,
		Files:         info.Files,
		MotionEnabled: info.MotionEnabled,
	})
}

func (r *eventReporter) VideoAnalyzed(v reporter.VideoResult) {
	_ = r.handler(VideoAnalyzedEvent{
		BaseEvent: base(EventTypeVideoAnalyzed),
		Exercise:  v.Exercise,
		File:      v.File,
		Accepted:  v.Accepted,
		Reasons:   v.Reasons,
		CopiedTo:  v.CopiedTo,
		Current:   v.Index,
		Total:     v.Total,
	})
}

func (r *eventReporter) CategoryComplete(s reporter.CategorySummary) {
	_ = r.handler(ExerciseCompleteEvent{
		BaseEvent: base(EventTypeExerciseComplete),
		Stats:     s.Stats,
	})
}

func (r *eventReporter) RunComplete(s reporter.RunSummary) {
	_ = r.handler(RunCompleteEvent{
		BaseEvent:   base(EventTypeRunComplete),
		Totals:      s.Totals,
		ReportFiles: s.ReportFiles,
		Cancelled:   s.Cancelled,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: base(EventTypeWarning),
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  base(EventTypeError),
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) Verbose(string) {}
