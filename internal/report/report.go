// Package report composes the penance pipeline: load, classify, aggregate.
// A Report depends only on the export bytes and the options it was built
// with; building one has no side effects beyond logging.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Veraticus/penance-hunter/internal/aggregate"
	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/ingest"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
	"golang.org/x/sync/errgroup"
)

// Options control classification defaults and the table and chart filters.
type Options struct {
	Series   aggregate.SeriesFilter
	Table    aggregate.TableFilter
	Defaults taxonomy.Defaults
}

// Validate checks both filters against the configured class labels.
func (o Options) Validate() error {
	classifier := taxonomy.NewClassifier(o.Defaults)
	if err := o.Table.Validate(classifier); err != nil {
		return err
	}
	return o.Series.Validate(classifier)
}

// Report is everything derived from one export.
type Report struct {
	ExportTimestamp *time.Time              `json:"export_timestamp,omitempty" yaml:"export_timestamp,omitempty"`
	FileName        string                  `json:"file_name" yaml:"file_name"`
	ExportDate      string                  `json:"export_date" yaml:"export_date"`
	SourceID        string                  `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Account         string                  `json:"account" yaml:"account"`
	Character       string                  `json:"character" yaml:"character"`
	Platform        string                  `json:"platform" yaml:"platform"`
	Metadata        model.AccountMetadata   `json:"metadata" yaml:"metadata"`
	Summary         aggregate.Summary       `json:"summary" yaml:"summary"`
	Categories      []aggregate.Count       `json:"categories" yaml:"categories"`
	Classes         []aggregate.Count       `json:"classes" yaml:"classes"`
	FilterOptions   aggregate.FilterOptions `json:"filter_options" yaml:"filter_options"`
	TableFilter     aggregate.TableFilter   `json:"table_filter" yaml:"table_filter"`
	Table           []model.PenanceRecord   `json:"table" yaml:"table"`
	SeriesFilter    aggregate.SeriesFilter  `json:"series_filter" yaml:"series_filter"`
	Series          []aggregate.Point       `json:"series" yaml:"series"`
	ClassSeries     []aggregate.ClassSeries `json:"class_series" yaml:"class_series"`
	Range           aggregate.RangeStats    `json:"range" yaml:"range"`
	Issues          []model.FieldIssue      `json:"issues,omitempty" yaml:"issues,omitempty"`
	Records         []model.PenanceRecord   `json:"-" yaml:"-"`
}

// Build runs the pipeline over raw export bytes.
func Build(name string, data []byte, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	export, err := ingest.Load(name, data)
	if err != nil {
		return nil, err
	}
	return FromExport(export, opts)
}

// BuildFile runs the pipeline over the export at path.
func BuildFile(path string, opts Options) (*Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return Build(filepath.Base(path), data, opts)
}

// FromExport classifies and aggregates an already loaded export. The export
// is not modified.
func FromExport(export *model.Export, opts Options) (*Report, error) {
	if export == nil {
		return nil, fmt.Errorf("%w: nil export", common.ErrEmptyInput)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	classifier := taxonomy.NewClassifier(opts.Defaults)
	records := classifier.Apply(export.Records)
	selected := opts.Series.Select(records, classifier)

	r := &Report{
		ExportTimestamp: export.ExportTimestamp,
		FileName:        export.FileName,
		ExportDate:      export.ExportDate,
		SourceID:        export.SourceID,
		Account:         export.ExportAccount,
		Character:       export.ExportCharacter,
		Platform:        export.ExportPlatform,
		Metadata:        export.Metadata,
		Summary:         aggregate.Summarize(records),
		Categories:      aggregate.CategoryCounts(records),
		Classes:         aggregate.ClassCounts(aggregate.InCategory(records, taxonomy.CategoryClass), classifier),
		FilterOptions:   aggregate.Options(records, classifier),
		TableFilter:     opts.Table,
		Table:           opts.Table.Apply(records, classifier),
		SeriesFilter:    opts.Series,
		Series:          aggregate.CumulativeSeries(selected, classifier),
		ClassSeries:     aggregate.ClassSeriesOf(selected, classifier),
		Range:           aggregate.Range(selected),
		Issues:          export.Issues,
		Records:         records,
	}

	common.LogDebug("built report", common.Fields{
		"file":       export.FileName,
		"records":    len(records),
		"table_rows": len(r.Table),
		"charted":    len(selected),
	})

	return r, nil
}

// BuildFiles builds one report per path concurrently. Results are in path
// order. The first failure cancels the remaining work.
func BuildFiles(ctx context.Context, paths []string, opts Options) ([]*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	reports := make([]*Report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := BuildFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
