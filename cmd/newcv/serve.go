package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zadnan82/newcv-sub002/internal/app"
	"github.com/zadnan82/newcv-sub002/internal/server"
)

var (
	servePort        int
	serveSkipRestore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Long: `Start the HTTP API the browser editor talks to. The previous session is
restored first: the resume last saved to the server, else the local draft,
else a blank draft.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT, else 8080)")
	serveCmd.Flags().BoolVar(&serveSkipRestore, "no-restore", false, "Start with no current resume")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		logger := newLogger()

		if !serveSkipRestore {
			// A failed restore (backend down, token expired) is not fatal:
			// the editor sees State.Error and can retry or start a draft.
			if _, err := a.Service.Rehydrate(ctx); err != nil {
				logger.Warn("session not restored", slog.String("error", err.Error()))
			}
		}

		port := servePort
		if port == 0 {
			port = a.Config.Port
		}
		return server.New(a, logger).Start(ctx, port)
	})
}
