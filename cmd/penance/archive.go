package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/ingest"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/Veraticus/penance-hunter/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Keep processed exports to track progress across exports",
		Long: `Store processed exports in a local SQLite archive, list them in export order
and re-render any stored export later.`,
	}

	cmd.PersistentFlags().String("db", "", "Archive database path (default from database.path)")
	_ = viper.BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(archiveAddCmd())
	cmd.AddCommand(archiveListCmd())
	cmd.AddCommand(archiveShowCmd())
	cmd.AddCommand(archiveRemoveCmd())

	return cmd
}

func archiveAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <export.csv>...",
		Short: "Archive one or more exports",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runArchiveAdd,
	}
}

func runArchiveAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}

	store, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Archiving exports...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	saved := make([]*model.Snapshot, 0, len(args))
	for _, path := range args {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap, err := snapshotFromFile(path, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		saved = append(saved, snap)
		common.LogInfo("Archived export", common.Fields{
			"file":      snap.FileName,
			"id":        snap.ID,
			"completed": snap.Completed,
			"total":     snap.Total,
		})

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	for _, snap := range saved {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Archived %s as %s (%d/%d, %.1f%%)",
			snap.FileName, snap.ID, snap.Completed, snap.Total, snap.CompletionPercent)))
	}
	return nil
}

// snapshotFromFile loads an export and computes its headline numbers.
func snapshotFromFile(path string, opts report.Options) (*model.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	export, err := ingest.Load(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	r, err := report.FromExport(export, opts)
	if err != nil {
		return nil, err
	}
	return model.NewSnapshot(export, r.Summary.Completed, r.Summary.Total, r.Summary.CompletionPercent), nil
}

func archiveListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived exports, oldest first",
		Args:  cobra.NoArgs,
		RunE:  runArchiveList,
	}
	addFormatFlag(cmd)
	return cmd
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	format, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openArchive(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snapshots, err := store.ListSnapshots(cmd.Context())
	if err != nil {
		return err
	}

	if format != cli.FormatText {
		return cli.WriteStructured(cmd.OutOrStdout(), format, snapshots)
	}
	return cli.RenderSnapshots(cmd.OutOrStdout(), snapshots)
}

func archiveShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Re-render an archived export",
		Args:  cobra.ExactArgs(1),
		RunE:  runArchiveShow,
	}
	addFormatFlag(cmd)
	addTableFlags(cmd)
	return cmd
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	format, err := formatFromFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openArchive(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.GetSnapshot(cmd.Context(), args[0])
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("No archived export with id %s", args[0]), err)
	}
	if err != nil {
		return err
	}

	r, err := report.FromExport(snap.Export, opts)
	if err != nil {
		return err
	}
	return writeReports(cmd.OutOrStdout(), format, []*report.Report{r}, cli.RenderOptions{Limit: limit})
}

func archiveRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an archived export",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openArchive(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+args[0]))
			return nil
		},
	}
}
