package aggregate

import (
	"math"
	"time"

	"github.com/Veraticus/penance-hunter/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Summary is the headline view of an export. CompletionPercent is rounded to
// one decimal place; MeanProgress averages the clamped progress of records
// still in progress.
type Summary struct {
	EarliestCompletion *time.Time `json:"earliest_completion,omitempty" yaml:"earliest_completion,omitempty"`
	LatestCompletion   *time.Time `json:"latest_completion,omitempty" yaml:"latest_completion,omitempty"`
	Completed          int        `json:"completed" yaml:"completed"`
	InProgress         int        `json:"in_progress" yaml:"in_progress"`
	Total              int        `json:"total" yaml:"total"`
	CompletionPercent  float64    `json:"completion_percent" yaml:"completion_percent"`
	MeanProgress       float64    `json:"mean_progress" yaml:"mean_progress"`
	TotalScore         float64    `json:"total_score" yaml:"total_score"`
}

// Summarize computes the headline statistics.
func Summarize(records []model.PenanceRecord) Summary {
	totals := Totals(records)
	s := Summary{
		Completed:  totals.Completed,
		InProgress: totals.InProgress,
		Total:      totals.Total,
	}
	if totals.Total > 0 {
		s.CompletionPercent = math.Round(float64(totals.Completed)/float64(totals.Total)*1000) / 10
	}

	var progress []float64
	for _, r := range records {
		if !r.IsCompleted() {
			progress = append(progress, r.DisplayPercentage())
		}
	}
	if len(progress) > 0 {
		s.MeanProgress = stat.Mean(progress, nil)
	}

	stats := Range(records)
	s.EarliestCompletion = stats.First
	s.LatestCompletion = stats.Last
	s.TotalScore = stats.TotalScore

	return s
}
