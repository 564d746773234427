// Package model defines the core data structures for the penance application.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status indicates whether a penance has been earned.
type Status string

// Status constants, spelled as they appear in the export.
const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
)

// ParseStatus maps a raw Status cell onto a Status. Anything other than
// "Completed" is treated as in progress.
func ParseStatus(raw string) Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusCompleted)) {
		return StatusCompleted
	}
	return StatusInProgress
}

// ProgressBand groups a progress fraction for display colouring.
type ProgressBand string

// Progress bands.
const (
	BandHigh ProgressBand = "high"
	BandMid  ProgressBand = "mid"
	BandLow  ProgressBand = "low"
)

const progressBarBlocks = 10

// PenanceRecord is one achievement row from an export.
type PenanceRecord struct {
	CompletionTime     *time.Time `json:"completion_time,omitempty" yaml:"completion_time,omitempty"`
	AchievementID      string     `json:"achievement_id" yaml:"achievement_id"`
	Title              string     `json:"title" yaml:"title"`
	Description        string     `json:"description" yaml:"description"`
	Category           string     `json:"category" yaml:"category"`
	PenanceClass       string     `json:"penance_class" yaml:"penance_class"`
	PenanceCategory    string     `json:"penance_category" yaml:"penance_category"`
	Status             Status     `json:"status" yaml:"status"`
	Score              float64    `json:"score" yaml:"score"`
	Progress           float64    `json:"progress" yaml:"progress"`
	Goal               float64    `json:"goal" yaml:"goal"`
	ProgressPercentage float64    `json:"progress_percentage" yaml:"progress_percentage"`
	ProgressDiff       float64    `json:"progress_diff" yaml:"progress_diff"`
	CumulativeCount    int        `json:"cumulative_count" yaml:"cumulative_count"`
	Row                int        `json:"row" yaml:"row"`
}

// IsCompleted reports whether the penance has been earned.
func (r PenanceRecord) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// HasCompletionTime reports whether a completion time was recorded.
func (r PenanceRecord) HasCompletionTime() bool {
	return r.CompletionTime != nil
}

// DisplayPercentage returns the progress fraction clamped to [0,1]; NaN shows
// as 0. The stored value is left untouched.
func (r PenanceRecord) DisplayPercentage() float64 {
	switch {
	case math.IsNaN(r.ProgressPercentage), r.ProgressPercentage < 0:
		return 0
	case r.ProgressPercentage > 1:
		return 1
	default:
		return r.ProgressPercentage
	}
}

// ProgressText formats the raw progress fraction as a whole percentage.
func (r PenanceRecord) ProgressText() string {
	return fmt.Sprintf("%.0f%%", r.ProgressPercentage*100)
}

// ProgressBar renders a ten block bar for the clamped progress fraction.
func (r PenanceRecord) ProgressBar() string {
	blocks := int(r.DisplayPercentage() * progressBarBlocks)
	return strings.Repeat("█", blocks) + strings.Repeat("░", progressBarBlocks-blocks)
}

// Band classifies the progress fraction for colouring.
func (r PenanceRecord) Band() ProgressBand {
	return BandFor(r.ProgressPercentage)
}

// BandFor classifies a progress fraction.
func BandFor(v float64) ProgressBand {
	switch {
	case v >= 0.8:
		return BandHigh
	case v >= 0.5:
		return BandMid
	default:
		return BandLow
	}
}
