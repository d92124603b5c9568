// Package main is the newcv command: the local API server for the browser
// editor plus one-shot commands to inspect and sync the local draft.
//
//	newcv serve               run the local API
//	newcv draft show|new|clear|import <file>
//	newcv sync push|pull [id]
//
// Configuration comes from the environment (and .env); see internal/config.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zadnan82/newcv-sub002/internal/app"
	"github.com/zadnan82/newcv-sub002/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "newcv",
	Short:         "Resume draft store and sync client",
	Long:          "newcv keeps a resume draft in local storage and syncs it with the resume backend.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs text to stderr so command output on stdout stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withApp loads the config, wires an App, runs fn and closes the App.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, newLogger())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}
