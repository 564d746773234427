package model

import (
	"fmt"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
)

// Unknown is the placeholder for export fields that could not be determined.
const Unknown = "Unknown"

// Export is one loaded penance export file.
type Export struct {
	ExportTimestamp *time.Time      `json:"export_timestamp,omitempty" yaml:"export_timestamp,omitempty"`
	FileName        string          `json:"file_name" yaml:"file_name"`
	ExportDate      string          `json:"export_date" yaml:"export_date"`
	SourceID        string          `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	ExportAccount   string          `json:"export_account" yaml:"export_account"`
	ExportCharacter string          `json:"export_character" yaml:"export_character"`
	ExportPlatform  string          `json:"export_platform" yaml:"export_platform"`
	Metadata        AccountMetadata `json:"metadata" yaml:"metadata"`
	Records         []PenanceRecord `json:"records" yaml:"records"`
	Issues          []FieldIssue    `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Completed returns the completed records in their current order.
func (e *Export) Completed() []PenanceRecord {
	return filterStatus(e.Records, StatusCompleted)
}

// InProgress returns the records still in progress in their current order.
func (e *Export) InProgress() []PenanceRecord {
	return filterStatus(e.Records, StatusInProgress)
}

func filterStatus(records []PenanceRecord, status Status) []PenanceRecord {
	out := make([]PenanceRecord, 0, len(records))
	for _, r := range records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// FieldIssue records a single cell that failed to parse and was replaced by a default.
type FieldIssue struct {
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
	Row    int    `json:"row" yaml:"row"`
}

func (i FieldIssue) Error() string {
	return fmt.Sprintf("row %d column %s: %q", i.Row, i.Column, i.Value)
}

// Unwrap lets callers match field issues with errors.Is.
func (i FieldIssue) Unwrap() error {
	return common.ErrUnparseableField
}
