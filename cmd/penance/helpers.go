package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/penance-hunter/internal/aggregate"
	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/config"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/Veraticus/penance-hunter/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// currentConfig returns the loaded configuration, falling back to defaults
// when initConfig has not run.
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	v := viper.New()
	config.SetDefaults(v)
	return config.Load(v)
}

// openArchive opens the snapshot archive with migrations applied.
func openArchive(ctx context.Context) (*storage.SQLiteStorage, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg.Database.Path)
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", cli.FormatText, "Output format (text, json, yaml)")
}

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", aggregate.All, "Filter the table by status (All, Completed, In Progress)")
	cmd.Flags().String("category", aggregate.All, "Filter the table by category label")
	cmd.Flags().String("class", aggregate.All, "Filter the table by class label")
	cmd.Flags().Int("limit", 0, "Maximum table rows to show (0 shows all)")
}

func addSeriesFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("classes", nil, "Classes to chart (default: all)")
	cmd.Flags().String("start", "", "Chart start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Chart end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().Bool("now", false, "End the chart at the current time")
}

func tableFilterFromFlags(cmd *cobra.Command) aggregate.TableFilter {
	var f aggregate.TableFilter
	f.Status, _ = cmd.Flags().GetString("status")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Class, _ = cmd.Flags().GetString("class")
	return f
}

func seriesFilterFromFlags(cmd *cobra.Command) (aggregate.SeriesFilter, error) {
	var (
		f   aggregate.SeriesFilter
		err error
	)
	f.Classes, _ = cmd.Flags().GetStringSlice("classes")
	f.UntilNow, _ = cmd.Flags().GetBool("now")

	start, _ := cmd.Flags().GetString("start")
	if f.Start, err = report.ParseDay(start); err != nil {
		return f, err
	}
	end, _ := cmd.Flags().GetString("end")
	if f.End, err = report.ParseDay(end); err != nil {
		return f, err
	}
	return f, nil
}

// reportOptions collects whichever filter flags cmd defines.
func reportOptions(cmd *cobra.Command) (report.Options, error) {
	cfg, err := currentConfig()
	if err != nil {
		return report.Options{}, err
	}

	opts := report.Options{Defaults: cfg.Taxonomy}
	if cmd.Flags().Lookup("status") != nil {
		opts.Table = tableFilterFromFlags(cmd)
	}
	if cmd.Flags().Lookup("classes") != nil {
		if opts.Series, err = seriesFilterFromFlags(cmd); err != nil {
			return opts, err
		}
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func formatFromFlags(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("format")
	return cli.ParseFormat(raw)
}

// writeReports renders reports in format. Structured formats emit a single
// object for one report and a list otherwise.
func writeReports(w io.Writer, format string, reports []*report.Report, opts cli.RenderOptions) error {
	if format != cli.FormatText {
		if len(reports) == 1 {
			return cli.WriteStructured(w, format, reports[0])
		}
		return cli.WriteStructured(w, format, reports)
	}

	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := cli.RenderReport(w, r, opts); err != nil {
			return err
		}
	}
	return nil
}
