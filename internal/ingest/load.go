package ingest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
)

// Load builds an Export from the raw bytes of a penance export. name is the
// file name the bytes came from and is only used for the export date and
// source id. Records are returned unclassified.
func Load(name string, data []byte) (*model.Export, error) {
	data = stripBOM(data)

	rows, err := NormalizeRows(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", displayName(name), err)
	}

	exportName := ParseExportName(name)

	export := &model.Export{
		FileName:        name,
		ExportDate:      exportName.Date,
		ExportTimestamp: exportName.Timestamp,
		SourceID:        exportName.SourceID,
		ExportAccount:   rows.Account,
		ExportCharacter: rows.Character,
		ExportPlatform:  rows.Platform,
		Metadata:        ExtractMetadata(data),
		Records:         rows.Records,
		Issues:          rows.Issues,
	}

	common.LogDebug("loaded export", common.Fields{
		"file":    name,
		"records": len(export.Records),
		"issues":  len(export.Issues),
	})

	return export, nil
}

// LoadFile reads and loads the export at path.
func LoadFile(path string) (*model.Export, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return Load(path, data)
}

func displayName(name string) string {
	if name == "" {
		return "export"
	}
	return name
}
