// Package aggregate derives grouped counts, cumulative series and summary
// statistics from classified penance records. Every function is pure and
// returns empty results for empty input.
package aggregate

import (
	"math"

	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
)

// Count is the completed/total tally of one group.
type Count struct {
	Label      string `json:"label" yaml:"label"`
	Completed  int    `json:"completed" yaml:"completed"`
	InProgress int    `json:"in_progress" yaml:"in_progress"`
	Total      int    `json:"total" yaml:"total"`
	Percent    int    `json:"percent" yaml:"percent"`
}

func (c *Count) add(r model.PenanceRecord) {
	c.Total++
	if r.IsCompleted() {
		c.Completed++
	} else {
		c.InProgress++
	}
}

func (c *Count) finish() {
	c.Percent = RoundPercent(c.Completed, c.Total)
}

// RoundPercent returns completed/total as a whole percentage, rounding half away from zero.
func RoundPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Totals counts every record regardless of group.
func Totals(records []model.PenanceRecord) Count {
	c := Count{Label: "All"}
	for _, r := range records {
		c.add(r)
	}
	c.finish()
	return c
}

// CategoryCounts groups records by penance category. Groups are returned in
// category display order and only when non-empty.
func CategoryCounts(records []model.PenanceRecord) []Count {
	return groupCounts(records, taxonomy.Categories(), categoryOf)
}

// ClassCounts groups records by their summary-context class. Ids that match no
// class rule fall into the classifier's summary default.
func ClassCounts(records []model.PenanceRecord, classifier *taxonomy.Classifier) []Count {
	labelOf := func(r model.PenanceRecord) string {
		return classifier.Class(r.AchievementID, taxonomy.UseSummary)
	}
	return groupCounts(records, classifier.ClassLabels(taxonomy.UseSummary), labelOf)
}

func groupCounts(records []model.PenanceRecord, order []string, labelOf func(model.PenanceRecord) string) []Count {
	groups := make(map[string]*Count, len(order))
	for _, r := range records {
		label := labelOf(r)
		c, ok := groups[label]
		if !ok {
			c = &Count{Label: label}
			groups[label] = c
		}
		c.add(r)
	}

	out := make([]Count, 0, len(groups))
	for _, label := range order {
		if c, ok := groups[label]; ok {
			c.finish()
			out = append(out, *c)
			delete(groups, label)
		}
	}
	// labels outside the canonical order, e.g. records classified with
	// different defaults, keep first-seen order
	for _, r := range records {
		if c, ok := groups[labelOf(r)]; ok {
			c.finish()
			out = append(out, *c)
			delete(groups, c.Label)
		}
	}
	return out
}

// categoryOf returns the record's category, deriving it when the record
// has not been classified yet.
func categoryOf(r model.PenanceRecord) string {
	if r.PenanceCategory != "" {
		return r.PenanceCategory
	}
	return taxonomy.CategoryOf(r.AchievementID, r.Category)
}

// classOf returns the record's legend-context class.
func classOf(r model.PenanceRecord, classifier *taxonomy.Classifier) string {
	if r.PenanceClass != "" {
		return r.PenanceClass
	}
	return classifier.Class(r.AchievementID, taxonomy.UseLegend)
}

// InCategory returns the records whose category is label, keeping order.
func InCategory(records []model.PenanceRecord, label string) []model.PenanceRecord {
	out := make([]model.PenanceRecord, 0)
	for _, r := range records {
		if categoryOf(r) == label {
			out = append(out, r)
		}
	}
	return out
}
