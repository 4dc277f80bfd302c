package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains connection settings for the Immich server.
type Server struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Policy contains the duplicate-resolution decision settings.
type Policy struct {
	// PreferredFormat is the file extension that wins the format tie-break
	// (without the leading dot).
	PreferredFormat string `toml:"preferred_format"`
	// PairsOnly restricts processing to two-member groups; larger groups
	// are logged and left for manual review.
	PairsOnly bool `toml:"pairs_only"`
	// TransferMetadata migrates losers' albums, tags, and location data to
	// the winner before deletion.
	TransferMetadata bool `toml:"transfer_metadata"`
	// KeepWinnerMetadata preserves the winner's own location/EXIF fields.
	// When false they are cleared before the transfer plan is applied.
	KeepWinnerMetadata bool `toml:"keep_winner_metadata"`
	// Confirm prompts the operator before each group is mutated.
	Confirm bool `toml:"confirm"`
}

// Deletion contains settings for how losers are removed.
type Deletion struct {
	DryRun    bool `toml:"dry_run"`
	Permanent bool `toml:"permanent"`
	BatchSize int  `toml:"batch_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Enabled   bool   `toml:"enabled"`
	Format    string `toml:"format"`
	Level     string `toml:"level"`
	Directory string `toml:"directory"`
	Language  string `toml:"language"`
}

// Config encapsulates all configuration values for dupesweep.
//
// Configuration sections:
//   - Server: Immich endpoint, API key, and request timeout
//   - Policy: winner selection and metadata transfer behavior
//   - Deletion: dry-run, recycle-vs-permanent, and batch sizing
//   - Logging: log format, level, per-run log files, and language
type Config struct {
	Server   Server   `toml:"server"`
	Policy   Policy   `toml:"policy"`
	Deletion Deletion `toml:"deletion"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dupesweep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has environment overrides applied and all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dupesweep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory when logging is enabled.
func (c *Config) EnsureDirectories() error {
	if !c.Logging.Enabled {
		return nil
	}
	if dir := strings.TrimSpace(c.Logging.Directory); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (s Server) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ResolvePath reports which configuration file a load would use and whether
// it exists, without parsing or validating it.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
