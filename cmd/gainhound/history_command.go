package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gainhound/internal/config"
	"gainhound/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt,
					run.Status,
					yesNo(run.DryRun),
					fmt.Sprintf("%d", run.OK),
					fmt.Sprintf("%d", run.Failed),
					fmt.Sprintf("%d", run.Remaining),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Status", "Dry run", "OK", "Failed", "Remaining"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.AddCommand(newHistoryTracksCommand(ctx))
	return cmd
}

func newHistoryTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <run-id>",
		Short: "Show the tracks processed in a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			tracks, err := store.RunTracks(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("query run tracks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintf(out, "No tracks recorded for run %s.\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				rows = append(rows, []string{
					fmt.Sprintf("%+.2f", track.Gain),
					track.Outcome,
					track.Path,
					track.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Gain (dB)", "Outcome", "Path", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled in configuration")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return store, nil
}
