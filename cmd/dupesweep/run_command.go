package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dupesweep/internal/immich"
	"dupesweep/internal/journal"
	"dupesweep/internal/logging"
	"dupesweep/internal/msg"
	"dupesweep/internal/sweep"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var permanent bool
	var pairsOnly bool
	var confirm bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve duplicate groups and delete the redundant copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := sweep.OptionsFromConfig(cfg)
			flags := cmd.Flags()
			if flags.Changed("dry-run") {
				opts.DryRun = dryRun
			}
			if flags.Changed("permanent") {
				opts.Permanent = permanent
			}
			if flags.Changed("pairs-only") {
				opts.PairsOnly = pairsOnly
			}
			if flags.Changed("confirm") {
				opts.Confirm = confirm
			}
			if flags.Changed("batch-size") {
				if batchSize < 1 {
					return fmt.Errorf("batch size must be at least 1, got %d", batchSize)
				}
				opts.BatchSize = batchSize
			}

			logger, logPath, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			catalog := msg.New(cfg.Logging.Language)
			out := cmd.OutOrStdout()

			client := immich.NewClient(cfg.Server.URL, cfg.Server.APIKey, cfg.Server.Timeout(), logger)
			user, err := client.FetchCurrentUser(cmd.Context())
			if err != nil {
				if errors.Is(err, immich.ErrUnauthorized) {
					return fmt.Errorf("authentication failed for %s: check the configured API key", cfg.Server.URL)
				}
				return fmt.Errorf("reach server %s: %w", cfg.Server.URL, err)
			}
			logger.Info("authenticated",
				logging.String("server", cfg.Server.URL),
				logging.String("user", user.Email))

			var recorder sweep.Recorder
			dir, err := dataDir()
			if err != nil {
				logger.Warn("journal disabled", logging.Error(err))
			} else {
				opts.LockPath = filepath.Join(dir, "dupesweep.lock")
				store, err := journal.Open(dir)
				if err != nil {
					logger.Warn("journal disabled", logging.Error(err))
				} else {
					defer store.Close()
					recorder = store
				}
			}

			if logPath != "" {
				fmt.Fprintf(out, "Logging to %s\n", logPath)
			}

			runner := sweep.New(opts, client, newConsolePrompter(catalog, out), recorder, catalog, logger, out)
			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("run finished",
				logging.String("run_id", summary.RunID),
				logging.Bool("dry_run", summary.DryRun),
				logging.Int("groups_processed", summary.GroupsProcessed),
				logging.Int("groups_skipped", summary.GroupsSkipped+summary.GroupsDeclined),
				logging.Int("assets_deleted", summary.AssetsDeleted),
				logging.Int64("bytes_reclaimed", summary.BytesReclaimed),
				logging.Int("errors", summary.Errors))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "Report decisions without deleting anything")
	cmd.Flags().BoolVar(&permanent, "permanent", false, "Bypass the server trash and delete permanently")
	cmd.Flags().BoolVar(&pairsOnly, "pairs-only", false, "Only process two-member groups")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask before mutating each group")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Maximum assets per deletion request")

	return cmd
}
