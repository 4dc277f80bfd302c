package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dupesweep/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Edit the file to set url and api_key (or export %s and %s) before running dupesweep.\n", config.EnvServer, config.EnvAPIKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server.url              = %s\n", cfg.Server.URL)
			fmt.Fprintf(out, "server.api_key          = %s\n", redactKey(cfg.Server.APIKey))
			fmt.Fprintf(out, "server.request_timeout  = %ds\n", cfg.Server.RequestTimeout)
			fmt.Fprintf(out, "policy.preferred_format = %s\n", cfg.Policy.PreferredFormat)
			fmt.Fprintf(out, "policy.pairs_only       = %s\n", yesNo(cfg.Policy.PairsOnly))
			fmt.Fprintf(out, "policy.transfer_metadata = %s\n", yesNo(cfg.Policy.TransferMetadata))
			fmt.Fprintf(out, "policy.keep_winner_metadata = %s\n", yesNo(cfg.Policy.KeepWinnerMetadata))
			fmt.Fprintf(out, "policy.confirm          = %s\n", yesNo(cfg.Policy.Confirm))
			fmt.Fprintf(out, "deletion.dry_run        = %s\n", yesNo(cfg.Deletion.DryRun))
			fmt.Fprintf(out, "deletion.permanent      = %s\n", yesNo(cfg.Deletion.Permanent))
			fmt.Fprintf(out, "deletion.batch_size     = %d\n", cfg.Deletion.BatchSize)
			fmt.Fprintf(out, "logging.enabled         = %s\n", yesNo(cfg.Logging.Enabled))
			fmt.Fprintf(out, "logging.format          = %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "logging.level           = %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "logging.directory       = %s\n", cfg.Logging.Directory)
			fmt.Fprintf(out, "logging.language        = %s\n", cfg.Logging.Language)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, exists, err := ctx.configPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)
			if !exists {
				fmt.Fprintln(out, "(file does not exist yet; defaults and environment variables apply)")
			}
			return nil
		},
	}
}

// redactKey keeps only a short suffix so operators can tell keys apart
// without leaking them into terminal history or screenshots.
func redactKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
