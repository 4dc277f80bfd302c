package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupesweep/internal/config"
)

func TestConfigInit(t *testing.T) {
	isolateHome(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if out, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v\n%s", err, out)
	}
}

func TestConfigShowRedactsAPIKey(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvServer, "https://photos.example")
	t.Setenv(config.EnvAPIKey, "super-secret-key-1234")

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	requireContains(t, out, "****1234")
	if strings.Contains(out, "super-secret-key-1234") {
		t.Fatalf("api key leaked in output:\n%s", out)
	}
	requireContains(t, out, "https://photos.example")
}

func TestConfigPath(t *testing.T) {
	isolateHome(t)

	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "custom.toml")
	out, err := runCLI(t, "--config", cfgPath, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, cfgPath)
	requireContains(t, out, "does not exist yet")
}
