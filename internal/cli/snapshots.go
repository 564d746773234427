package cli

import (
	"fmt"
	"io"

	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderSnapshots writes the archive listing, oldest export first.
func RenderSnapshots(w io.Writer, snapshots []model.Snapshot) error {
	title := StyleSection(fmt.Sprintf("%s Archived Exports (%d)", FolderIcon, len(snapshots)))
	if len(snapshots) == 0 {
		return writeSections(w, []string{title, SubtleStyle.Render("The archive is empty.")})
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.ID,
			valueOr(s.ExportDate, model.Unknown),
			formatTime(s.ExportTimestamp, NotAvailable),
			s.Account,
			s.Character,
			fmt.Sprintf("%d/%d", s.Completed, s.Total),
			fmt.Sprintf("%.1f%%", s.CompletionPercent),
		})
	}

	t := newTable("ID", "Date", "Exported", "Account", "Character", "Completed", "%").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 6 && row >= 0 && row < len(snapshots) {
				return TableCellStyle.Foreground(BandColor(model.BandFor(snapshots[row].CompletionPercent / 100)))
			}
			return TableCellStyle
		})

	return writeSections(w, []string{title, t.String()})
}
