package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/penance-hunter/internal/aggregate"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Placeholders for missing values.
const (
	NotAvailable      = "N/A"
	LegacyModVersion  = "Legacy"
	timeDisplayLayout = "2006-01-02 15:04"
	completionBarSize = 30
)

// RenderOptions tune the text report.
type RenderOptions struct {
	// Limit caps the penance table rows; zero shows every row.
	Limit int
}

// RenderReport writes the full text report for r.
func RenderReport(w io.Writer, r *report.Report, opts RenderOptions) error {
	sections := []string{
		RenderHeader(r),
		renderCharacters(r.Metadata.Characters),
		renderCounts("Categories", "Category", r.Categories),
		renderCounts("Class Penances", "Class", r.Classes),
		RenderPenanceTable(r.Table, opts.Limit),
	}
	if len(r.Issues) > 0 {
		sections = append(sections, FormatWarning(fmt.Sprintf("%d field(s) could not be parsed and were replaced by defaults", len(r.Issues))))
	}

	return writeSections(w, sections)
}

// RenderHeader renders the account and completion summary box.
func RenderHeader(r *report.Report) string {
	meta := r.Metadata
	s := r.Summary

	level := fmt.Sprintf("%s (true: %s, prestige: %s)",
		intOrNA(meta.AccountLevel), intOrNA(meta.AccountTrueLevel), intOrNA(meta.Prestige))

	rows := [][2]string{
		{"Account", r.Account},
		{"Character", r.Character},
		{"Platform", r.Platform},
		{"Account level", level},
		{"Export time", formatTime(r.ExportTimestamp, model.Unknown)},
		{"Timezone", valueOr(meta.Timezone, NotAvailable)},
		{"Mod version", valueOr(meta.ModVersion, LegacyModVersion)},
		{"Completed", fmt.Sprintf("%d/%d (%.1f%%)", s.Completed, s.Total, s.CompletionPercent)},
		{"Earliest completion", formatTime(s.EarliestCompletion, NotAvailable)},
		{"Latest completion", formatTime(s.LatestCompletion, NotAvailable)},
		{"Mean open progress", fmt.Sprintf("%.0f%%", s.MeanProgress*100)},
	}

	lines := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", SubtleStyle.Render(fmt.Sprintf("%-20s", row[0]+":")), row[1]))
	}
	lines = append(lines, CompletionBar(s.CompletionPercent/100))

	return RenderBox(SkullIcon+" Penance Report", strings.Join(lines, "\n"))
}

// CompletionBar renders a solid bar coloured by progress band.
func CompletionBar(fraction float64) string {
	bar := progress.New(
		progress.WithWidth(completionBarSize),
		progress.WithoutPercentage(),
		progress.WithSolidFill(string(BandColor(model.BandFor(fraction)))),
	)
	return bar.ViewAs(clamp(fraction))
}

func renderCharacters(characters []model.CharacterSummary) string {
	if len(characters) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(characters))
	for _, c := range characters {
		trueLevel, prestige := NotAvailable, NotAvailable
		if c.HasTrueLevel() {
			trueLevel = strconv.Itoa(*c.TrueLevel)
			prestige = strconv.Itoa(*c.Prestige)
		}
		level := strconv.Itoa(c.Level)
		if c.Level == 0 {
			level = NotAvailable
		}
		rows = append(rows, []string{c.Name, c.Class, level, trueLevel, prestige})
	}

	t := newTable("Name", "Class", "Level", "True Level", "Prestige").Rows(rows...)
	return lipgloss.JoinVertical(lipgloss.Left, StyleSection("Characters"), t.String())
}

func renderCounts(title, label string, counts []aggregate.Count) string {
	if len(counts) == 0 {
		return ""
	}

	rows := make([][]string, 0, len(counts))
	fractions := make([]float64, 0, len(counts))
	for _, c := range counts {
		fraction := 0.0
		if c.Total > 0 {
			fraction = float64(c.Completed) / float64(c.Total)
		}
		fractions = append(fractions, fraction)
		rows = append(rows, []string{
			c.Label,
			fmt.Sprintf("%d/%d", c.Completed, c.Total),
			strconv.Itoa(c.InProgress),
			fmt.Sprintf("%d%%", c.Percent),
		})
	}

	t := newTable(label, "Completed", "In Progress", "%").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 3 && row >= 0 && row < len(fractions) {
				return TableCellStyle.Foreground(BandColor(model.BandFor(fractions[row])))
			}
			return TableCellStyle
		})

	return lipgloss.JoinVertical(lipgloss.Left, StyleSection(title), t.String())
}

// RenderPenanceTable renders records with coloured progress. limit caps the
// rows shown when positive.
func RenderPenanceTable(records []model.PenanceRecord, limit int) string {
	title := StyleSection(fmt.Sprintf("Penances (%d)", len(records)))
	if len(records) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, SubtleStyle.Render("No penances match the filter."))
	}

	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			r.Title,
			r.PenanceClass,
			r.PenanceCategory,
			string(r.Status),
			formatNumber(r.Progress) + "/" + formatNumber(r.Goal),
			r.ProgressText(),
			r.ProgressBar(),
			formatTime(r.CompletionTime, ""),
		})
	}

	t := newTable("Title", "Class", "Category", "Status", "Progress", "%", "Bar", "Completed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if (col == 5 || col == 6) && row >= 0 && row < len(shown) {
				return TableCellStyle.Foreground(BandColor(shown[row].Band()))
			}
			return TableCellStyle
		})

	out := lipgloss.JoinVertical(lipgloss.Left, title, t.String())
	if len(shown) < len(records) {
		out = lipgloss.JoinVertical(lipgloss.Left, out,
			SubtleStyle.Render(fmt.Sprintf("... %d more", len(records)-len(shown))))
	}
	return out
}

// RenderTimeline writes the chart view: per-class completion curves
// summarised as counts and the range statistics.
func RenderTimeline(w io.Writer, r *report.Report) error {
	stats := r.Range
	rangeLines := []string{
		fmt.Sprintf("%-18s %s", "First penance:", formatTime(stats.First, NotAvailable)),
		fmt.Sprintf("%-18s %s", "Last penance:", formatTime(stats.Last, NotAvailable)),
		fmt.Sprintf("%-18s %d", "Completed:", stats.Completed),
		fmt.Sprintf("%-18s %s", "Total score:", formatNumber(stats.TotalScore)),
	}

	sections := []string{
		RenderBox(ChartIcon+" Progress Over Time", strings.Join(rangeLines, "\n")),
	}

	if len(r.ClassSeries) == 0 {
		sections = append(sections, SubtleStyle.Render("No completed penances in range."))
		return writeSections(w, sections)
	}

	total := 0
	if n := len(r.Series); n > 0 {
		total = r.Series[n-1].Count
	}

	rows := make([][]string, 0, len(r.ClassSeries))
	for _, s := range r.ClassSeries {
		last, _ := s.Last()
		share := 0.0
		if total > 0 {
			share = float64(last.Count) / float64(total)
		}
		rows = append(rows, []string{
			s.Class,
			strconv.Itoa(last.Count),
			formatTime(&s.Points[0].Time, ""),
			formatTime(&last.Time, ""),
			CompletionBar(share),
		})
	}

	t := newTable("Class", "Completed", "First", "Last", "Share").Rows(rows...)
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, StyleSection("Classes"), t.String()))

	return writeSections(w, sections)
}

// StyleSection renders a section heading.
func StyleSection(text string) string {
	return TitleStyle.Render(text)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

func writeSections(w io.Writer, sections []string) error {
	for _, s := range sections {
		if s == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func formatTime(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format(timeDisplayLayout)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intOrNA(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
