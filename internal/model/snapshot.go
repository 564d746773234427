package model

import "time"

// Snapshot is an archived export together with its headline numbers.
// Export is only populated when a single snapshot is fetched.
type Snapshot struct {
	CreatedAt         time.Time  `json:"created_at" yaml:"created_at"`
	ExportTimestamp   *time.Time `json:"export_timestamp,omitempty" yaml:"export_timestamp,omitempty"`
	Export            *Export    `json:"export,omitempty" yaml:"export,omitempty"`
	ID                string     `json:"id" yaml:"id"`
	SourceID          string     `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	FileName          string     `json:"file_name" yaml:"file_name"`
	ExportDate        string     `json:"export_date" yaml:"export_date"`
	Account           string     `json:"account" yaml:"account"`
	Character         string     `json:"character" yaml:"character"`
	Completed         int        `json:"completed" yaml:"completed"`
	Total             int        `json:"total" yaml:"total"`
	CompletionPercent float64    `json:"completion_percent" yaml:"completion_percent"`
}

// NewSnapshot describes export with the given completion numbers.
func NewSnapshot(export *Export, completed, total int, percent float64) *Snapshot {
	return &Snapshot{
		ExportTimestamp:   export.ExportTimestamp,
		Export:            export,
		SourceID:          export.SourceID,
		FileName:          export.FileName,
		ExportDate:        export.ExportDate,
		Account:           export.ExportAccount,
		Character:         export.ExportCharacter,
		Completed:         completed,
		Total:             total,
		CompletionPercent: percent,
	}
}
