package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gainhound/internal/ledger"
)

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates",
		Short: "List tracks the next run would re-encode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := ledger.NewStore(cfg.Paths.Ledger)
			entries, err := store.Load()
			if err != nil {
				return fmt.Errorf("load ledger: %w", err)
			}
			candidates := ledger.Select(entries, cfg.Remediation.GainThreshold, cfg.Remediation.Extensions)

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No candidates above the threshold.")
				return nil
			}

			if !isTerminal(out) {
				for _, cand := range candidates {
					fmt.Fprintf(out, "%+.2f\t%s\n", cand.Gain, cand.Path)
				}
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for _, cand := range candidates {
				rows = append(rows, []string{fmt.Sprintf("%+.2f", cand.Gain), cand.Path})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Gain (dB)", "Path"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d candidate(s), threshold %.2f dB\n", len(candidates), cfg.Remediation.GainThreshold)
			return nil
		},
	}
}
