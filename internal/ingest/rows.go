package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
)

// Export column names.
const (
	ColumnAchievementID      = "Achievement_ID"
	ColumnTitle              = "Title"
	ColumnDescription        = "Description"
	ColumnCategory           = "Category"
	ColumnScore              = "Score"
	ColumnProgress           = "Progress"
	ColumnGoal               = "Goal"
	ColumnProgressPercentage = "Progress_Percentage"
	ColumnStatus             = "Status"
	ColumnCompletionTime     = "Completion_Time"
	ColumnExportAccount      = "Export_Account"
	ColumnExportCharacter    = "Export_Character"
	ColumnExportPlatform     = "Export_Platform"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{
	ColumnStatus,
	ColumnProgress,
	ColumnGoal,
	ColumnAchievementID,
	ColumnCategory,
	ColumnCompletionTime,
}

// timestampLayouts are tried in order for Completion_Time cells. Values
// without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
}

// Rows is the normalized tabular body of an export.
type Rows struct {
	Account   string
	Character string
	Platform  string
	Records   []model.PenanceRecord
	Issues    []model.FieldIssue
}

type header map[string]int

func (h header) cell(row []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// NormalizeRows reads the CSV body of an export into records ordered by
// completion time. Comment lines are skipped. A missing required column
// fails with a MalformedInputError; unparseable cells are replaced by
// defaults and reported in Issues.
func NormalizeRows(r io.Reader) (*Rows, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &common.MalformedInputError{Err: common.ErrEmptyInput, Missing: append([]string(nil), RequiredColumns...)}
	}
	if err != nil {
		return nil, &common.MalformedInputError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	cols := make(header, len(first))
	for i, name := range first {
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, common.NewMissingColumnsError(missing)
	}

	rows := &Rows{
		Account:   model.Unknown,
		Character: model.Unknown,
		Platform:  model.Unknown,
		Records:   []model.PenanceRecord{},
	}

	n := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &common.MalformedInputError{Err: fmt.Errorf("failed to read row %d: %w", n+1, err)}
		}
		if isBlankRow(row) {
			continue
		}
		n++

		if n == 1 {
			rows.Account = valueOr(cols.cell(row, ColumnExportAccount), model.Unknown)
			rows.Character = valueOr(cols.cell(row, ColumnExportCharacter), model.Unknown)
			rows.Platform = valueOr(cols.cell(row, ColumnExportPlatform), model.Unknown)
		}

		record, issues := normalizeRow(cols, row, n)
		rows.Records = append(rows.Records, record)
		rows.Issues = append(rows.Issues, issues...)
	}

	model.SortByCompletionTime(rows.Records)
	for i := range rows.Records {
		rows.Records[i].CumulativeCount = i + 1
	}

	common.LogDebug("normalized export rows", common.Fields{
		"rows":   len(rows.Records),
		"issues": len(rows.Issues),
	})

	return rows, nil
}

func normalizeRow(cols header, row []string, n int) (model.PenanceRecord, []model.FieldIssue) {
	var issues []model.FieldIssue
	number := func(column string) float64 {
		raw := cols.cell(row, column)
		if raw == "" {
			return 0
		}
		v, ok := parseNumber(raw)
		if !ok {
			issues = append(issues, fieldIssue(n, column, raw))
			return 0
		}
		return v
	}

	record := model.PenanceRecord{
		AchievementID: cols.cell(row, ColumnAchievementID),
		Title:         cols.cell(row, ColumnTitle),
		Description:   cols.cell(row, ColumnDescription),
		Category:      cols.cell(row, ColumnCategory),
		Status:        model.ParseStatus(cols.cell(row, ColumnStatus)),
		Score:         number(ColumnScore),
		Progress:      number(ColumnProgress),
		Goal:          number(ColumnGoal),
		Row:           n,
	}
	record.ProgressDiff = record.Goal - record.Progress

	rawPct := cols.cell(row, ColumnProgressPercentage)
	pct, ok := parsePercentage(rawPct)
	if !ok {
		if rawPct != "" {
			issues = append(issues, fieldIssue(n, ColumnProgressPercentage, rawPct))
		}
		pct = derivedPercentage(record)
	}
	record.ProgressPercentage = pct

	if rawTime := cols.cell(row, ColumnCompletionTime); rawTime != "" {
		if ts, ok := ParseTimestamp(rawTime); ok {
			record.CompletionTime = &ts
		} else {
			issues = append(issues, fieldIssue(n, ColumnCompletionTime, rawTime))
		}
	}

	return record, issues
}

func fieldIssue(row int, column, value string) model.FieldIssue {
	issue := model.FieldIssue{Row: row, Column: column, Value: value}
	common.LogDebug("substituting default for unparseable field", common.Fields{
		"row":    row,
		"column": column,
		"value":  value,
	})
	return issue
}

// parsePercentage accepts a fraction ("0.75") or a percent string ("75%").
func parsePercentage(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	if trimmed, ok := strings.CutSuffix(raw, "%"); ok {
		v, ok := parseNumber(strings.TrimSpace(trimmed))
		if !ok {
			return 0, false
		}
		return v / 100, true
	}
	return parseNumber(raw)
}

// parseNumber parses a finite float; NaN and infinities are rejected.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// derivedPercentage computes progress/goal. A zero goal yields 1 for a
// completed record and 0 otherwise.
func derivedPercentage(r model.PenanceRecord) float64 {
	if r.Goal == 0 {
		if r.IsCompleted() {
			return 1
		}
		return 0
	}
	return r.Progress / r.Goal
}

// ParseTimestamp parses a Completion_Time cell. The second result is false
// when no known layout matches.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
