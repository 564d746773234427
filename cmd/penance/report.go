package main

import (
	"log/slog"

	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <export.csv>...",
		Short: "Summarize one or more penance exports",
		Long: `Load penance exports and print completion totals, category and class
breakdowns and the penance table.

Several exports are processed in parallel and printed in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReport,
	}

	addFormatFlag(cmd)
	addTableFlags(cmd)

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	slog.Debug("Building reports", "files", len(args))

	reports, err := report.BuildFiles(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	return writeReports(cmd.OutOrStdout(), format, reports, cli.RenderOptions{Limit: limit})
}
