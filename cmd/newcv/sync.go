package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zadnan82/newcv-sub002/internal/app"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange resumes with the backend",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Save the restored session's resume to the backend",
	Long: `Restore the session (server resume, else local draft) and save it. A local
draft is created on the server; a server resume is updated in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			cur, err := a.Service.Rehydrate(ctx)
			if err != nil {
				return err
			}

			var saved *model.Resume
			if cur.IsLocal() {
				saved, err = a.Service.CreateResume(ctx, nil)
			} else {
				saved, err = a.Service.UpdateResume(ctx, cur.ID, nil)
			}
			if err != nil {
				return err
			}
			if saved == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "backend accepted the resume without returning it")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved resume %s (%s)\n", saved.ID, saved.Title)
			return nil
		})
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull [id]",
	Short: "List server resumes, or select one for the next session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				resumes, err := a.Service.FetchResumes(ctx)
				if err != nil {
					return err
				}
				if len(resumes) == 0 {
					fmt.Fprintln(out, "no resumes on the server")
				}
				for _, r := range resumes {
					fmt.Fprintf(out, "%s\t%s\n", r.ID, r.Title)
				}
				return nil
			}

			r, err := a.Service.FetchResume(ctx, args[0])
			if err != nil {
				return err
			}
			// The marker makes the next serve or push restore this resume.
			if err := a.Drafts.MarkResumeSavedToServer(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "selected resume %s (%s)\n", r.ID, r.Title)
			return nil
		})
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd)
	rootCmd.AddCommand(syncCmd)
}
