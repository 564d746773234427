package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) *time.Time {
	t := time.Date(2025, 1, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func done(id, category string, when *time.Time, score float64) model.PenanceRecord {
	return model.PenanceRecord{
		AchievementID:      id,
		Category:           category,
		Status:             model.StatusCompleted,
		CompletionTime:     when,
		Score:              score,
		Progress:           1,
		Goal:               1,
		ProgressPercentage: 1,
	}
}

func open(id, category string, progress, goal float64) model.PenanceRecord {
	return model.PenanceRecord{
		AchievementID:      id,
		Category:           category,
		Status:             model.StatusInProgress,
		Progress:           progress,
		Goal:               goal,
		ProgressDiff:       goal - progress,
		ProgressPercentage: progress / goal,
	}
}

const (
	rawClass    = "loc_class_abilities_title"
	rawTactical = "loc_achievement_category_offensive_label"
	rawWeapons  = "loc_achievement_category_weapons_label"
)

func fixture() []model.PenanceRecord {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	return classifier.Apply([]model.PenanceRecord{
		done("zealot_mission_havoc_5", rawTactical, at(3, 10), 10),
		done("veteran_kills_1", rawClass, at(1, 9), 5),
		done("zealot_blessed_1", rawClass, at(2, 12), 5),
		done("kill_poxwalkers", "loc_unmapped", at(2, 12), 20),
		done("psyker_smite", rawClass, nil, 5),
		open("veteran_kills_2", rawClass, 30, 100),
		open("lasgun_mastery", rawWeapons, 9, 10),
		open("ogryn_broker_crossover", rawClass, 0, 4),
	})
}

func TestTotalsAndCategoryCounts(t *testing.T) {
	records := fixture()

	totals := Totals(records)
	assert.Equal(t, Count{Label: "All", Completed: 5, InProgress: 3, Total: 8, Percent: 63}, totals)

	want := []Count{
		{Label: taxonomy.CategoryClass, Completed: 3, InProgress: 2, Total: 5, Percent: 60},
		{Label: taxonomy.CategoryTactical, Completed: 1, InProgress: 0, Total: 1, Percent: 100},
		{Label: taxonomy.CategoryEndeavours, Completed: 1, InProgress: 0, Total: 1, Percent: 100},
		{Label: taxonomy.CategoryWeapons, Completed: 0, InProgress: 1, Total: 1, Percent: 0},
	}
	if diff := cmp.Diff(want, CategoryCounts(records)); diff != "" {
		t.Errorf("CategoryCounts mismatch (-want +got):\n%s", diff)
	}
}

func TestClassCounts(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	records := fixture()

	got := ClassCounts(records, classifier)
	want := []Count{
		{Label: taxonomy.ClassOgryn, Completed: 0, InProgress: 1, Total: 1, Percent: 0},
		{Label: taxonomy.ClassPsyker, Completed: 1, InProgress: 0, Total: 1, Percent: 100},
		{Label: taxonomy.ClassVeteran, Completed: 1, InProgress: 1, Total: 2, Percent: 50},
		{Label: taxonomy.ClassZealot, Completed: 2, InProgress: 0, Total: 2, Percent: 100},
		{Label: "Unknown", Completed: 1, InProgress: 1, Total: 2, Percent: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassCounts mismatch (-want +got):\n%s", diff)
	}

	classOnly := ClassCounts(InCategory(records, taxonomy.CategoryClass), classifier)
	require.Len(t, classOnly, 4)
	assert.Equal(t, taxonomy.ClassOgryn, classOnly[0].Label)
}

func TestClassCounts_Partition(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	records := fixture()

	for _, subset := range [][]model.PenanceRecord{records, InCategory(records, taxonomy.CategoryClass), nil} {
		totals := Totals(subset)
		var completed, total int
		for _, c := range ClassCounts(subset, classifier) {
			completed += c.Completed
			total += c.Total
		}
		assert.Equal(t, totals.Completed, completed)
		assert.Equal(t, totals.Total, total)

		completed, total = 0, 0
		for _, c := range CategoryCounts(subset) {
			completed += c.Completed
			total += c.Total
		}
		assert.Equal(t, totals.Completed, completed)
		assert.Equal(t, totals.Total, total)
	}
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 0, RoundPercent(0, 0))
	assert.Equal(t, 33, RoundPercent(1, 3))
	assert.Equal(t, 67, RoundPercent(2, 3))
	assert.Equal(t, 50, RoundPercent(1, 2))
	assert.Equal(t, 100, RoundPercent(4, 4))
}

func TestCumulativeSeries(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	points := CumulativeSeries(fixture(), classifier)

	ids := make([]string, 0, len(points))
	for i, p := range points {
		ids = append(ids, p.AchievementID)
		assert.Equal(t, i+1, p.Count)
	}
	// equal times keep input order; no completion time means no point
	assert.Equal(t, []string{"veteran_kills_1", "zealot_blessed_1", "kill_poxwalkers", "zealot_mission_havoc_5"}, ids)
	assert.Equal(t, "General", points[2].Class)
}

func TestClassSeriesOf(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	records := fixture()
	series := ClassSeriesOf(records, classifier)

	classes := make([]string, 0, len(series))
	for _, s := range series {
		classes = append(classes, s.Class)

		for i := 1; i < len(s.Points); i++ {
			assert.GreaterOrEqual(t, s.Points[i].Count, s.Points[i-1].Count)
			assert.False(t, s.Points[i].Time.Before(s.Points[i-1].Time))
		}

		completed := 0
		for _, r := range records {
			if Charted(r) && r.PenanceClass == s.Class {
				completed++
			}
		}
		last, ok := s.Last()
		require.True(t, ok)
		assert.Equal(t, completed, last.Count)
	}
	assert.Equal(t, []string{"General", taxonomy.ClassVeteran, taxonomy.ClassZealot}, classes)
}

func TestSeries_Empty(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	assert.Empty(t, CumulativeSeries(nil, classifier))
	assert.Empty(t, ClassSeriesOf(nil, classifier))
	assert.Empty(t, CategoryCounts(nil))
	assert.Empty(t, ClassCounts(nil, classifier))
	assert.Equal(t, RangeStats{}, Range(nil))
	assert.Equal(t, Summary{}, Summarize(nil))

	_, ok := ClassSeries{}.Last()
	assert.False(t, ok)
}

func TestSeriesFilter(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	records := fixture()
	day := func(d int) *time.Time { return at(d, 0) }

	tests := []struct {
		name   string
		filter SeriesFilter
		want   []string
	}{
		{
			name:   "no filter keeps charted records",
			filter: SeriesFilter{},
			want:   []string{"veteran_kills_1", "zealot_blessed_1", "kill_poxwalkers", "zealot_mission_havoc_5"},
		},
		{
			name:   "classes",
			filter: SeriesFilter{Classes: []string{taxonomy.ClassZealot}},
			want:   []string{"zealot_blessed_1", "zealot_mission_havoc_5"},
		},
		{
			name:   "end day is inclusive",
			filter: SeriesFilter{Start: day(2), End: day(2)},
			want:   []string{"zealot_blessed_1", "kill_poxwalkers"},
		},
		{
			name:   "until now overrides end",
			filter: SeriesFilter{End: day(1), UntilNow: true, Now: func() time.Time { return *at(2, 23) }},
			want:   []string{"veteran_kills_1", "zealot_blessed_1", "kill_poxwalkers"},
		},
		{
			name:   "range with nothing",
			filter: SeriesFilter{Start: day(20)},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.filter.Validate(classifier))
			selected := tt.filter.Select(records, classifier)
			ids := make([]string, 0, len(selected))
			for _, r := range selected {
				ids = append(ids, r.AchievementID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSeriesFilter_Validate(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())

	err := SeriesFilter{Classes: []string{"Tech Priest"}}.Validate(classifier)
	assert.True(t, errors.Is(err, common.ErrInvalidFilter))

	err = SeriesFilter{Start: at(5, 0), End: at(1, 0)}.Validate(classifier)
	assert.True(t, errors.Is(err, common.ErrInvalidFilter))

	assert.NoError(t, SeriesFilter{Classes: []string{"General", taxonomy.ClassOgryn}}.Validate(classifier))
}

func TestRange(t *testing.T) {
	stats := Range(fixture())

	require.NotNil(t, stats.First)
	require.NotNil(t, stats.Last)
	assert.Equal(t, *at(1, 9), *stats.First)
	assert.Equal(t, *at(3, 10), *stats.Last)
	assert.Equal(t, 4, stats.Completed)
	assert.InDelta(t, 40.0, stats.TotalScore, 1e-9)
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, 5, s.Completed)
	assert.Equal(t, 3, s.InProgress)
	assert.Equal(t, 8, s.Total)
	assert.InDelta(t, 62.5, s.CompletionPercent, 1e-9)
	assert.InDelta(t, (0.3+0.9+0.0)/3, s.MeanProgress, 1e-9)
	require.NotNil(t, s.EarliestCompletion)
	assert.Equal(t, *at(1, 9), *s.EarliestCompletion)
}

func TestTableFilter(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	records := fixture()

	tests := []struct {
		name   string
		filter TableFilter
		want   []string
	}{
		{
			name:   "all in progress by remaining",
			filter: TableFilter{Status: "In Progress"},
			want:   []string{"lasgun_mastery", "ogryn_broker_crossover", "veteran_kills_2"},
		},
		{
			name:   "category and class",
			filter: TableFilter{Status: All, Category: taxonomy.CategoryClass, Class: taxonomy.ClassVeteran},
			want:   []string{"veteran_kills_1", "veteran_kills_2"},
		},
		{
			name:   "legend default class",
			filter: TableFilter{Class: "General"},
			want:   []string{"kill_poxwalkers", "lasgun_mastery"},
		},
		{
			name:   "completed weapons is empty",
			filter: TableFilter{Status: "completed", Category: taxonomy.CategoryWeapons},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.filter.Validate(classifier))
			rows := tt.filter.Apply(records, classifier)
			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.AchievementID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTableFilter_Validate(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())

	for _, f := range []TableFilter{
		{Status: "Abandoned"},
		{Category: "Secrets"},
		{Class: "Unknown"},
	} {
		err := f.Validate(classifier)
		assert.True(t, errors.Is(err, common.ErrInvalidFilter), "%+v", f)
	}
}

func TestOptions(t *testing.T) {
	classifier := taxonomy.NewClassifier(taxonomy.DefaultDefaults())
	opts := Options(fixture(), classifier)

	assert.Equal(t, 3, opts.InProgress)
	assert.Equal(t, []string{"All", "In Progress", "Completed"}, opts.Statuses)
	require.Len(t, opts.Categories, len(taxonomy.Categories()))
	require.Len(t, opts.Classes, 7)

	counts := map[string]int{}
	for _, o := range opts.Categories {
		counts[o.Value] = o.InProgress
	}
	assert.Equal(t, 2, counts[taxonomy.CategoryClass])
	assert.Equal(t, 1, counts[taxonomy.CategoryWeapons])
	assert.Equal(t, 0, counts[taxonomy.CategoryAccount])

	assert.Equal(t, "General (1)", opts.Classes[0].Label())
}
