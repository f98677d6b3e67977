package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gainhound/internal/history"
	"gainhound/internal/logging"
	"gainhound/internal/pipeline"
	"gainhound/internal/services/ffmpeg"
	"gainhound/internal/services/mp3gain"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var maxFiles int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the ledger and re-encode out-of-bounds tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// CLI flags beat the config file, but only when given explicitly.
			if cmd.Flags().Changed("dry-run") {
				cfg.Remediation.DryRun = dryRun
			}
			if cmd.Flags().Changed("max-files") {
				cfg.Remediation.MaxFiles = maxFiles
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			encoder := ffmpeg.NewCLI(cfg.Encoder.VBRQuality, cfg.Encoder.ID3Version,
				ffmpeg.WithBinary(cfg.Encoder.Binary))
			tagger := mp3gain.NewCLI(mp3gain.WithBinary(cfg.TagStrip.Binary))

			var hist *history.Store
			if cfg.History.Enabled {
				hist, err = history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history database unavailable; continuing without it",
						logging.String("path", cfg.History.Path),
						logging.Error(err),
					)
					hist = nil
				} else {
					defer hist.Close()
				}
			}

			summary, runErr := pipeline.New(cfg, logger, encoder, tagger, hist).Run(cmd.Context())
			if runErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), runErr)
			}
			if code := pipeline.ExitCode(summary, runErr); code != pipeline.ExitOK {
				return &exitCodeError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List candidates without changing anything")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Cap the number of files processed this run (0 = no cap)")
	return cmd
}
