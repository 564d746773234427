package aggregate

import (
	"fmt"
	"strings"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
)

// All disables a table filter dimension.
const All = "All"

// TableFilter selects rows for the penance table. Empty fields and All match everything.
type TableFilter struct {
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
}

// Validate checks that each dimension names a known status, category or class.
func (f TableFilter) Validate(classifier *taxonomy.Classifier) error {
	if !isAll(f.Status) {
		s := strings.TrimSpace(f.Status)
		if !strings.EqualFold(s, string(model.StatusCompleted)) && !strings.EqualFold(s, string(model.StatusInProgress)) {
			return fmt.Errorf("%w: unknown status %q", common.ErrInvalidFilter, f.Status)
		}
	}
	if !isAll(f.Category) && !taxonomy.IsCategory(f.Category) {
		return fmt.Errorf("%w: unknown category %q", common.ErrInvalidFilter, f.Category)
	}
	if !isAll(f.Class) && !contains(classifier.ClassLabels(taxonomy.UseLegend), f.Class) {
		return fmt.Errorf("%w: unknown class %q", common.ErrInvalidFilter, f.Class)
	}
	return nil
}

// Apply returns the matching records ordered by remaining progress, smallest first.
// The input is not modified.
func (f TableFilter) Apply(records []model.PenanceRecord, classifier *taxonomy.Classifier) []model.PenanceRecord {
	out := make([]model.PenanceRecord, 0, len(records))
	for _, r := range records {
		if !isAll(f.Status) && r.Status != model.ParseStatus(f.Status) {
			continue
		}
		if !isAll(f.Category) && categoryOf(r) != f.Category {
			continue
		}
		if !isAll(f.Class) && classOf(r, classifier) != f.Class {
			continue
		}
		out = append(out, r)
	}
	model.SortByProgressDiff(out)
	return out
}

// Option is one selectable filter value with its in-progress count.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	InProgress int    `json:"in_progress" yaml:"in_progress"`
}

// Label renders the option as shown in a filter list, e.g. "Weapons (3)".
func (o Option) Label() string {
	return fmt.Sprintf("%s (%d)", o.Value, o.InProgress)
}

// FilterOptions lists the table filter values with in-progress counts.
type FilterOptions struct {
	Statuses   []string `json:"statuses" yaml:"statuses"`
	Categories []Option `json:"categories" yaml:"categories"`
	Classes    []Option `json:"classes" yaml:"classes"`
	InProgress int      `json:"in_progress" yaml:"in_progress"`
}

// Options builds the filter choices. Every category and legend class is
// listed, including those with no records.
func Options(records []model.PenanceRecord, classifier *taxonomy.Classifier) FilterOptions {
	byCategory := map[string]int{}
	byClass := map[string]int{}
	total := 0
	for _, r := range records {
		if r.IsCompleted() {
			continue
		}
		total++
		byCategory[categoryOf(r)]++
		byClass[classOf(r, classifier)]++
	}

	opts := FilterOptions{
		Statuses:   []string{All, string(model.StatusInProgress), string(model.StatusCompleted)},
		InProgress: total,
	}
	for _, c := range taxonomy.Categories() {
		opts.Categories = append(opts.Categories, Option{Value: c, InProgress: byCategory[c]})
	}
	for _, c := range classifier.ClassLabels(taxonomy.UseLegend) {
		opts.Classes = append(opts.Classes, Option{Value: c, InProgress: byClass[c]})
	}
	return opts
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
