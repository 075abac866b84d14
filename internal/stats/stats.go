// Package stats aggregates per-exercise acceptance counters.
package stats

import (
	"github.com/five82/vidsift/internal/validation"
)

// TotalLabel is the exercise label of the summary row.
const TotalLabel = "TOTAL"

// ExerciseStats holds the counters for one exercise directory.
type ExerciseStats struct {
	Exercise           string `json:"exercise"`
	Total              int    `json:"total_videos"`
	Accepted           int    `json:"accepted_videos"`
	Rejected           int    `json:"rejected_videos"`
	CorruptedFiles     int    `json:"corrupted_files"`
	LowResolution      int    `json:"low_resolution"`
	TooDark            int    `json:"too_dark"`
	TooBright          int    `json:"too_bright"`
	Blurry             int    `json:"blurry"`
	InsufficientMotion int    `json:"insufficient_motion"`
}

// Record counts one evaluated video.
func (s *ExerciseStats) Record(res validation.Result) {
	s.Total++
	if res.Accepted {
		s.Accepted++
	} else {
		s.Rejected++
	}
	for _, r := range res.Reasons {
		if c := s.counter(r); c != nil {
			*c++
		}
	}
}

// Count returns the counter for reason.
func (s *ExerciseStats) Count(reason validation.Reason) int {
	if c := s.counter(reason); c != nil {
		return *c
	}
	return 0
}

func (s *ExerciseStats) counter(reason validation.Reason) *int {
	switch reason {
	case validation.ReasonCorruptedFile:
		return &s.CorruptedFiles
	case validation.ReasonLowResolution:
		return &s.LowResolution
	case validation.ReasonTooDark:
		return &s.TooDark
	case validation.ReasonTooBright:
		return &s.TooBright
	case validation.ReasonBlurry:
		return &s.Blurry
	case validation.ReasonInsufficientMotion:
		return &s.InsufficientMotion
	default:
		return nil
	}
}

// Add folds other's counters into s. The exercise label is left alone.
func (s *ExerciseStats) Add(other ExerciseStats) {
	s.Total += other.Total
	s.Accepted += other.Accepted
	s.Rejected += other.Rejected
	s.CorruptedFiles += other.CorruptedFiles
	s.LowResolution += other.LowResolution
	s.TooDark += other.TooDark
	s.TooBright += other.TooBright
	s.Blurry += other.Blurry
	s.InsufficientMotion += other.InsufficientMotion
}

// Aggregator collects ExerciseStats for each exercise in processing order
// and keeps a running total.
type Aggregator struct {
	current    *ExerciseStats
	categories []ExerciseStats
	totals     ExerciseStats
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{totals: ExerciseStats{Exercise: TotalLabel}}
}

// Begin starts a new exercise. An unfinished exercise is finished first.
func (a *Aggregator) Begin(exercise string) {
	if a.current != nil {
		a.Finish()
	}
	a.current = &ExerciseStats{Exercise: exercise}
}

// Record counts one result against the current exercise. Record without
// Begin is a programming error and panics.
func (a *Aggregator) Record(res validation.Result) {
	if a.current == nil {
		panic("stats: Record called before Begin")
	}
	a.current.Record(res)
}

// Current returns a copy of the in-progress exercise counters.
func (a *Aggregator) Current() ExerciseStats {
	if a.current == nil {
		return ExerciseStats{}
	}
	return *a.current
}

// Finish closes the current exercise and folds it into the totals. Exercises
// with no videos are dropped. It returns the finished stats and whether they
// were kept.
func (a *Aggregator) Finish() (ExerciseStats, bool) {
	if a.current == nil {
		return ExerciseStats{}, false
	}
	done := *a.current
	a.current = nil

	if done.Total == 0 {
		return done, false
	}
	a.categories = append(a.categories, done)
	a.totals.Add(done)
	return done, true
}

// Categories returns the finished exercises in processing order.
func (a *Aggregator) Categories() []ExerciseStats {
	out := make([]ExerciseStats, len(a.categories))
	copy(out, a.categories)
	return out
}

// Totals returns the TOTAL row.
func (a *Aggregator) Totals() ExerciseStats {
	return a.totals
}
