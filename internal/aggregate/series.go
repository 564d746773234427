package aggregate

import (
	"fmt"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
	"gonum.org/v1/gonum/floats"
)

// Point is one completion on a cumulative curve.
type Point struct {
	Time          time.Time `json:"time" yaml:"time"`
	AchievementID string    `json:"achievement_id" yaml:"achievement_id"`
	Title         string    `json:"title" yaml:"title"`
	Class         string    `json:"class" yaml:"class"`
	Score         float64   `json:"score" yaml:"score"`
	Count         int       `json:"count" yaml:"count"`
}

// ClassSeries is the cumulative completion curve of one class.
type ClassSeries struct {
	Class  string  `json:"class" yaml:"class"`
	Points []Point `json:"points" yaml:"points"`
}

// Last returns the final point of the series.
func (s ClassSeries) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Charted reports whether a record takes part in time series: it must be
// completed and carry a completion time.
func Charted(r model.PenanceRecord) bool {
	return r.IsCompleted() && r.HasCompletionTime()
}

// charted returns the charted records in completion order. Equal times keep
// their input order.
func charted(records []model.PenanceRecord) []model.PenanceRecord {
	out := make([]model.PenanceRecord, 0, len(records))
	for _, r := range records {
		if Charted(r) {
			out = append(out, r)
		}
	}
	model.SortByCompletionTime(out)
	return out
}

// CumulativeSeries returns the ungrouped running count of completions.
func CumulativeSeries(records []model.PenanceRecord, classifier *taxonomy.Classifier) []Point {
	ordered := charted(records)
	points := make([]Point, 0, len(ordered))
	for i, r := range ordered {
		points = append(points, newPoint(r, classOf(r, classifier), i+1))
	}
	return points
}

// ClassSeriesOf returns one running count per legend class, in class display
// order. Classes without charted records are omitted.
func ClassSeriesOf(records []model.PenanceRecord, classifier *taxonomy.Classifier) []ClassSeries {
	byClass := map[string][]Point{}
	for _, r := range charted(records) {
		class := classOf(r, classifier)
		byClass[class] = append(byClass[class], newPoint(r, class, len(byClass[class])+1))
	}

	out := make([]ClassSeries, 0, len(byClass))
	for _, class := range classifier.ClassLabels(taxonomy.UseLegend) {
		if points, ok := byClass[class]; ok {
			out = append(out, ClassSeries{Class: class, Points: points})
			delete(byClass, class)
		}
	}
	for _, r := range charted(records) {
		class := classOf(r, classifier)
		if points, ok := byClass[class]; ok {
			out = append(out, ClassSeries{Class: class, Points: points})
			delete(byClass, class)
		}
	}
	return out
}

func newPoint(r model.PenanceRecord, class string, count int) Point {
	return Point{
		Time:          *r.CompletionTime,
		AchievementID: r.AchievementID,
		Title:         r.Title,
		Class:         class,
		Score:         r.Score,
		Count:         count,
	}
}

// SeriesFilter narrows the records drawn on the progress chart. End includes
// the whole day it falls on. Empty Classes selects every class.
type SeriesFilter struct {
	Start    *time.Time       `json:"start,omitempty" yaml:"start,omitempty"`
	End      *time.Time       `json:"end,omitempty" yaml:"end,omitempty"`
	Now      func() time.Time `json:"-" yaml:"-"`
	Classes  []string         `json:"classes,omitempty" yaml:"classes,omitempty"`
	UntilNow bool             `json:"until_now,omitempty" yaml:"until_now,omitempty"`
}

// Validate checks the class names and that the range is not inverted.
func (f SeriesFilter) Validate(classifier *taxonomy.Classifier) error {
	labels := classifier.ClassLabels(taxonomy.UseLegend)
	for _, c := range f.Classes {
		if !contains(labels, c) {
			return fmt.Errorf("%w: unknown class %q", common.ErrInvalidFilter, c)
		}
	}
	start, end := f.Bounds()
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end %s is before start %s", common.ErrInvalidFilter,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}

// Bounds returns the effective inclusive time range. UntilNow takes
// precedence over End.
func (f SeriesFilter) Bounds() (start, end *time.Time) {
	if f.Start != nil {
		s := *f.Start
		start = &s
	}
	switch {
	case f.UntilNow:
		now := time.Now()
		if f.Now != nil {
			now = f.Now()
		}
		end = &now
	case f.End != nil:
		e := f.End.AddDate(0, 0, 1)
		end = &e
	}
	return start, end
}

// Select returns the charted records that pass the filter, in completion order.
func (f SeriesFilter) Select(records []model.PenanceRecord, classifier *taxonomy.Classifier) []model.PenanceRecord {
	start, end := f.Bounds()
	out := make([]model.PenanceRecord, 0, len(records))
	for _, r := range charted(records) {
		if len(f.Classes) > 0 && !contains(f.Classes, classOf(r, classifier)) {
			continue
		}
		if start != nil && r.CompletionTime.Before(*start) {
			continue
		}
		if end != nil && r.CompletionTime.After(*end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RangeStats summarizes the completions inside a chart range.
type RangeStats struct {
	First      *time.Time `json:"first,omitempty" yaml:"first,omitempty"`
	Last       *time.Time `json:"last,omitempty" yaml:"last,omitempty"`
	Completed  int        `json:"completed" yaml:"completed"`
	TotalScore float64    `json:"total_score" yaml:"total_score"`
}

// Range computes RangeStats over the charted records.
func Range(records []model.PenanceRecord) RangeStats {
	ordered := charted(records)
	if len(ordered) == 0 {
		return RangeStats{}
	}

	scores := make([]float64, len(ordered))
	for i, r := range ordered {
		scores[i] = r.Score
	}

	first := *ordered[0].CompletionTime
	last := *ordered[len(ordered)-1].CompletionTime
	return RangeStats{
		First:      &first,
		Last:       &last,
		Completed:  len(ordered),
		TotalScore: floats.Sum(scores),
	}
}
