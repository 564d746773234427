package ingest

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/google/uuid"
)

// exportNamePattern matches "<uuid>_<YYYYMMDD>_<HHMMSS>.csv" anywhere in a file name.
var exportNamePattern = regexp.MustCompile(`([0-9a-f-]+)_([0-9]{8})_([0-9]{6})\.csv`)

const exportTimestampLayout = "20060102150405"

// ExportName holds what can be recovered from an export's file name.
type ExportName struct {
	Timestamp *time.Time
	Date      string
	SourceID  string
}

// ParseExportName extracts the export date and time from a file name. When the
// name does not follow the exporter convention Date is "Unknown" and Timestamp
// is nil. A date that matches the pattern but is not a real date keeps Date
// and leaves Timestamp nil.
func ParseExportName(name string) ExportName {
	m := exportNamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return ExportName{Date: model.Unknown}
	}

	result := ExportName{Date: m[2]}

	if ts, err := time.Parse(exportTimestampLayout, m[2]+m[3]); err == nil {
		result.Timestamp = &ts
	}

	if id, err := uuid.Parse(m[1]); err == nil {
		result.SourceID = id.String()
	}

	return result
}
