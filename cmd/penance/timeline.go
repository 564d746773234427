package main

import (
	"github.com/Veraticus/penance-hunter/internal/aggregate"
	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/spf13/cobra"
)

// timelineOutput is the structured form of the chart view.
type timelineOutput struct {
	Filter      aggregate.SeriesFilter  `json:"filter" yaml:"filter"`
	Series      []aggregate.Point       `json:"series" yaml:"series"`
	ClassSeries []aggregate.ClassSeries `json:"class_series" yaml:"class_series"`
	Range       aggregate.RangeStats    `json:"range" yaml:"range"`
}

func timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline <export.csv>",
		Short: "Show cumulative penance completions over time",
		Long: `Chart completed penances over time, grouped by class.

The end date includes the whole day. --now ends the chart at the current time
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runTimeline,
	}

	addFormatFlag(cmd)
	addSeriesFlags(cmd)

	return cmd
}

func runTimeline(cmd *cobra.Command, args []string) error {
	format, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}

	r, err := report.BuildFile(args[0], opts)
	if err != nil {
		return err
	}

	if format != cli.FormatText {
		return cli.WriteStructured(cmd.OutOrStdout(), format, timelineOutput{
			Filter:      r.SeriesFilter,
			Series:      r.Series,
			ClassSeries: r.ClassSeries,
			Range:       r.Range,
		})
	}
	return cli.RenderTimeline(cmd.OutOrStdout(), r)
}
