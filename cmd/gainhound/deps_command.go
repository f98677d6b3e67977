package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gainhound/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := deps.CheckAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, status := range results {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{status.Name, state, status.Command, status.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Status", "Command", "Detail"},
				rows,
				nil,
			))

			if !deps.AllRequired(results) {
				return errors.New("required dependencies are missing")
			}
			return nil
		},
	}
}
