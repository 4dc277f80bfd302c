package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupesweep/internal/config"
)

func TestLoadDefaultsWithEnvCredentials(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvServer, "https://photos.example.net/")
	t.Setenv(config.EnvAPIKey, "test-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Server.URL != "https://photos.example.net" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.URL)
	}
	if cfg.Server.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Server.APIKey)
	}
	if cfg.Server.RequestTimeout != 5 {
		t.Fatalf("unexpected request timeout: %d", cfg.Server.RequestTimeout)
	}
	if !cfg.Deletion.DryRun {
		t.Fatal("expected dry_run enabled by default")
	}
	if cfg.Deletion.Permanent {
		t.Fatal("expected permanent deletion disabled by default")
	}
	if cfg.Deletion.BatchSize != 500 {
		t.Fatalf("unexpected batch size: %d", cfg.Deletion.BatchSize)
	}
	if cfg.Policy.PairsOnly {
		t.Fatal("expected pairs_only disabled by default")
	}
	if !cfg.Policy.TransferMetadata || !cfg.Policy.KeepWinnerMetadata {
		t.Fatal("expected metadata transfer and keep-winner defaults enabled")
	}
	if cfg.Policy.Confirm {
		t.Fatal("expected confirm disabled by default")
	}
	if cfg.Policy.PreferredFormat != "heic" {
		t.Fatalf("unexpected preferred format: %q", cfg.Policy.PreferredFormat)
	}
	if cfg.Logging.Language != "en" {
		t.Fatalf("unexpected language: %q", cfg.Logging.Language)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "dupesweep", "logs")
	if cfg.Logging.Directory != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Logging.Directory, wantLogs)
	}
}

func TestLoadParsesFileAndEnvBooleans(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[server]",
		`url = "https://immich.local"`,
		`api_key = "abc123"`,
		"request_timeout = 30",
		"",
		"[policy]",
		`preferred_format = ".HEIC"`,
		"pairs_only = true",
		"confirm = true",
		"",
		"[deletion]",
		"dry_run = false",
		"batch_size = 50",
		"",
		"[logging]",
		`language = "fr"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvDryRun, "yes")
	t.Setenv(config.EnvPermanent, "on")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if !cfg.Deletion.DryRun {
		t.Fatal("expected env IMMICH_DRY_RUN=yes to override file")
	}
	if !cfg.Deletion.Permanent {
		t.Fatal("expected env IMMICH_DEFINITELY=on to enable permanent")
	}
	if cfg.Policy.PreferredFormat != "heic" {
		t.Fatalf("expected preferred format normalized, got %q", cfg.Policy.PreferredFormat)
	}
	if !cfg.Policy.PairsOnly || !cfg.Policy.Confirm {
		t.Fatal("expected pairs_only and confirm from file")
	}
	if cfg.Deletion.BatchSize != 50 {
		t.Fatalf("unexpected batch size: %d", cfg.Deletion.BatchSize)
	}
	if cfg.Server.RequestTimeout != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.Server.RequestTimeout)
	}
	if cfg.Logging.Language != "fr" {
		t.Fatalf("unexpected language: %q", cfg.Logging.Language)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := config.Default()
	base.Server.URL = "https://immich.local"
	base.Server.APIKey = "k"

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing url", func(c *config.Config) { c.Server.URL = "" }},
		{"invalid url", func(c *config.Config) { c.Server.URL = "not-a-url" }},
		{"missing api key", func(c *config.Config) { c.Server.APIKey = "" }},
		{"zero timeout", func(c *config.Config) { c.Server.RequestTimeout = 0 }},
		{"zero batch size", func(c *config.Config) { c.Deletion.BatchSize = 0 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "trace" }},
		{"bad language", func(c *config.Config) { c.Logging.Language = "de" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	good := base
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid baseline config, got %v", err)
	}
}
