package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gainhound/internal/services/plex"
)

func newPlexCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plex",
		Short: "Manage the Plex integration",
	}

	cmd.AddCommand(newPlexRescanCommand(ctx))
	cmd.AddCommand(newPlexSectionsCommand(ctx))
	cmd.AddCommand(newPlexClearAnalysisCommand(ctx))
	return cmd
}

func newPlexRescanCommand(ctx *commandContext) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "rescan",
		Short: "Trigger a music library scan, optionally followed by analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := plex.NewClient(cfg.Plex)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := client.WaitReady(cmd.Context(), 5, 2*time.Second); err != nil {
				return err
			}
			if err := client.ScanLibrary(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Scan requested for library %q.\n", cfg.Plex.Library)

			if analyze || cfg.Plex.ForceAnalyze {
				if err := client.AnalyzeLibrary(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Analysis scheduled; the server decides what analysis actually runs.")
				if cfg.Plex.AnalyzeLoudness {
					fmt.Fprintln(out, "Loudness analysis is enabled; large libraries take a while.")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", false, "Also schedule library analysis after the scan")
	return cmd
}

func newPlexSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the server's library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := plex.NewClient(cfg.Plex)
			if err != nil {
				return err
			}

			sections, err := client.Sections(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				rows = append(rows, []string{section.Key, section.Title, section.Type})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Type"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func newPlexClearAnalysisCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear-analysis",
		Short: "Drop stored analysis data for every music library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("this discards analysis data for every music library; re-run with --yes to proceed")
			}
			client, err := plex.NewClient(cfg.Plex)
			if err != nil {
				return err
			}

			cleared, err := client.ClearAnalysis(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared analysis for: %s\n", strings.Join(cleared, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the destructive operation")
	return cmd
}
