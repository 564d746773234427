package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/Veraticus/penance-hunter/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <export.csv|dir>",
		Short: "Re-run the report whenever an export changes",
		Long: `Watch an export file, or a directory of exports, and print a fresh report
each time a .csv export is written. Rapid successive writes are debounced.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	addFormatFlag(cmd)
	addTableFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "Quiet period before re-running (default from watch.debounce)")
	_ = viper.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	format, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	out := cmd.OutOrStdout()
	render := func(_ context.Context, path string) {
		r, err := report.BuildFile(path, opts)
		if err != nil {
			common.LogError(err, "Failed to build report", common.Fields{"path": path})
			fmt.Fprintln(out, cli.FormatError(err.Error()))
			return
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s %s updated at %s", cli.EyeIcon, r.FileName, time.Now().Format(time.TimeOnly))))
		if err := writeReports(out, format, []*report.Report{r}, cli.RenderOptions{Limit: limit}); err != nil {
			slog.Error("Failed to write report", "path", path, "error", err)
		}
	}

	w, err := watch.New(args[0], cfg.Watch.Debounce, render)
	if err != nil {
		return err
	}

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	defer interruptHandler.Stop()
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Watch")

	if info, statErr := os.Stat(args[0]); statErr == nil && !info.IsDir() {
		render(ctx, args[0])
	}

	return w.Run(ctx)
}
