package main

import (
	"log/slog"

	"github.com/Veraticus/penance-hunter/internal/cli"
	"github.com/Veraticus/penance-hunter/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve penance reports over HTTP",
		Long: `Start an HTTP API that builds reports from uploaded exports.

  GET  /health        liveness check
  POST /api/reports   CSV body (raw or multipart field "file"), returns the JSON report`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	defer interruptHandler.Stop()
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Server")

	s := server.New(server.Config{
		Logger:   slog.Default(),
		Defaults: cfg.Taxonomy,
		Server:   cfg.Server,
	})

	return s.Run(ctx)
}
