package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zadnan82/newcv-sub002/internal/app"
	"github.com/zadnan82/newcv-sub002/internal/importer"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect and manage the local draft",
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the local draft as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			if id, ok, err := a.Drafts.SavedServerID(ctx); err != nil {
				return err
			} else if ok {
				fmt.Fprintf(out, "saved to server as %s\n", id)
			}

			r, err := a.Drafts.GetResumeFromLocal(ctx)
			if err != nil {
				return err
			}
			if r == nil {
				fmt.Fprintln(out, "no local draft")
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		})
	},
}

var draftNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Discard the local draft and start a blank one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			r, err := a.Service.StartNewResume(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started draft %s\n", r.ID)
			return nil
		})
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local draft and the saved-to-server marker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Drafts.ClearResumeData(ctx); err != nil {
				return err
			}
			if err := a.Drafts.ClearResumeSavedStatus(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local draft cleared")
			return nil
		})
	},
}

var draftImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a resume JSON file and make it the local draft",
	Long: `Validate a resume JSON file against the resume schema and store it as a
new local draft. Any id in the file is dropped; the draft is local until
pushed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		r, err := importer.Import(raw)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Drafts.ClearResumeSavedStatus(ctx); err != nil {
				return err
			}
			if err := a.Service.SetCurrentResume(ctx, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported draft %s\n", r.ID)
			return nil
		})
	},
}

func init() {
	draftCmd.AddCommand(draftShowCmd, draftNewCmd, draftClearCmd, draftImportCmd)
	rootCmd.AddCommand(draftCmd)
}
