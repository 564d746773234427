package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRows(t *testing.T) {
	rows, err := NormalizeRows(strings.NewReader(sampleExport))
	require.NoError(t, err)

	require.Len(t, rows.Records, 3)
	assert.Equal(t, "acct", rows.Account)
	assert.Equal(t, "gern", rows.Character)
	assert.Equal(t, "steam", rows.Platform)
	assert.Empty(t, rows.Issues)

	// completion time ascending, in-progress last
	assert.Equal(t, "mission_zone_wide_collectible_1", rows.Records[0].AchievementID)
	assert.Equal(t, "zealot_mission_havoc_5", rows.Records[1].AchievementID)
	assert.Equal(t, "veteran_kills", rows.Records[2].AchievementID)
	assert.Nil(t, rows.Records[2].CompletionTime)

	for i, r := range rows.Records {
		assert.Equal(t, i+1, r.CumulativeCount)
		assert.InDelta(t, r.Goal-r.Progress, r.ProgressDiff, 1e-9)
	}

	veteran := rows.Records[2]
	assert.Equal(t, model.StatusInProgress, veteran.Status)
	assert.InDelta(t, 60.0, veteran.ProgressDiff, 1e-9)
	assert.InDelta(t, 0.4, veteran.ProgressPercentage, 1e-9)
	assert.Equal(t, 2, veteran.Row)

	havoc := rows.Records[1]
	require.NotNil(t, havoc.CompletionTime)
	assert.Equal(t, time.Date(2025, 3, 2, 18, 0, 0, 0, time.UTC), *havoc.CompletionTime)
}

func TestNormalizeRows_MissingColumns(t *testing.T) {
	input := "Achievement_ID,Title,Category,Progress\nfoo,Foo,loc,1\n"

	_, err := NormalizeRows(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedInput))

	var malformed *common.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, []string{"Status", "Goal", "Completion_Time"}, malformed.Missing)
	assert.Contains(t, err.Error(), "Completion_Time")
}

func TestNormalizeRows_Empty(t *testing.T) {
	_, err := NormalizeRows(strings.NewReader("# Account Level: 1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedInput))
	assert.True(t, errors.Is(err, common.ErrEmptyInput))
}

func TestNormalizeRows_FieldIssues(t *testing.T) {
	input := strings.Join([]string{
		"Achievement_ID,Category,Score,Progress,Goal,Progress_Percentage,Status,Completion_Time",
		"a,loc,ten,3,0,,In Progress,",
		"b,loc,1,2,0,,Completed,yesterday",
		"c,loc,1,4,8,75%,Completed,2025-01-01T00:00:00Z",
		"d,loc,1,4,8,bogus,Active,",
	}, "\n")

	rows, err := NormalizeRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows.Records, 4)

	byID := map[string]model.PenanceRecord{}
	for _, r := range rows.Records {
		byID[r.AchievementID] = r
	}

	assert.Zero(t, byID["a"].Score)
	assert.InDelta(t, -3.0, byID["a"].ProgressDiff, 1e-9, "goal 0 diff is negative progress")
	assert.Zero(t, byID["a"].ProgressPercentage)

	assert.Nil(t, byID["b"].CompletionTime)
	assert.InDelta(t, 1.0, byID["b"].ProgressPercentage, 1e-9)

	assert.InDelta(t, 0.75, byID["c"].ProgressPercentage, 1e-9)
	assert.Equal(t, model.StatusInProgress, byID["d"].Status)
	assert.InDelta(t, 0.5, byID["d"].ProgressPercentage, 1e-9)

	assert.Equal(t, model.Unknown, rows.Account)

	columns := make([]string, 0, len(rows.Issues))
	for _, issue := range rows.Issues {
		columns = append(columns, issue.Column)
		assert.True(t, errors.Is(issue, common.ErrUnparseableField))
	}
	assert.ElementsMatch(t, []string{"Score", "Completion_Time", "Progress_Percentage"}, columns)
}

func TestNormalizeRows_NonFiniteNumbers(t *testing.T) {
	input := strings.Join([]string{
		"Achievement_ID,Category,Score,Progress,Goal,Progress_Percentage,Status,Completion_Time",
		"a,loc,NaN,nan,Inf,NaN,In Progress,",
		"b,loc,1,2,4,NaN%,In Progress,",
		"c,loc,-Inf,1,1,+Inf,Completed,2025-01-01T00:00:00Z",
	}, "\n")

	rows, err := NormalizeRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows.Records, 3)

	byID := map[string]model.PenanceRecord{}
	for _, r := range rows.Records {
		byID[r.AchievementID] = r
	}

	a := byID["a"]
	assert.Zero(t, a.Score)
	assert.Zero(t, a.Progress)
	assert.Zero(t, a.Goal)
	assert.Zero(t, a.ProgressDiff)
	assert.Zero(t, a.ProgressPercentage)
	assert.Equal(t, "░░░░░░░░░░", a.ProgressBar())

	assert.InDelta(t, 0.5, byID["b"].ProgressPercentage, 1e-9, "falls back to progress/goal")

	c := byID["c"]
	assert.Zero(t, c.Score)
	assert.InDelta(t, 1.0, c.ProgressPercentage, 1e-9)

	columns := make([]string, 0, len(rows.Issues))
	for _, issue := range rows.Issues {
		columns = append(columns, issue.Column)
	}
	assert.ElementsMatch(t, []string{
		"Score", "Progress", "Goal", "Progress_Percentage",
		"Progress_Percentage",
		"Score", "Progress_Percentage",
	}, columns)
}

func TestNormalizeRows_StableTies(t *testing.T) {
	input := strings.Join([]string{
		"Achievement_ID,Category,Progress,Goal,Status,Completion_Time",
		"first,loc,1,1,Completed,2025-01-01 10:00:00",
		"open,loc,0,1,In Progress,",
		"second,loc,1,1,Completed,2025-01-01 10:00:00",
		"early,loc,1,1,Completed,2024-12-31 10:00:00",
	}, "\n")

	rows, err := NormalizeRows(strings.NewReader(input))
	require.NoError(t, err)

	ids := make([]string, 0, len(rows.Records))
	for _, r := range rows.Records {
		ids = append(ids, r.AchievementID)
	}
	assert.Equal(t, []string{"early", "first", "second", "open"}, ids)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{raw: "2025-01-02T03:04:05Z", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), wantOK: true},
		{raw: "2025-01-02T03:04:05", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), wantOK: true},
		{raw: "2025-01-02 03:04:05", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), wantOK: true},
		{raw: "2025-01-02 03:04:05.250", want: time.Date(2025, 1, 2, 3, 4, 5, 250000000, time.UTC), wantOK: true},
		{raw: "2025-01-02", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), wantOK: true},
		{raw: "", wantOK: false},
		{raw: "NaT", wantOK: false},
		{raw: "02/01/2025", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}
