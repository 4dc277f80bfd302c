package config

const (
	defaultRequestTimeout  = 5
	defaultPreferredFormat = "heic"
	defaultBatchSize       = 500
	defaultLogDir          = "~/.local/share/dupesweep/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLanguage        = "en"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			RequestTimeout: defaultRequestTimeout,
		},
		Policy: Policy{
			PreferredFormat:    defaultPreferredFormat,
			PairsOnly:          false,
			TransferMetadata:   true,
			KeepWinnerMetadata: true,
			Confirm:            false,
		},
		Deletion: Deletion{
			DryRun:    true,
			Permanent: false,
			BatchSize: defaultBatchSize,
		},
		Logging: Logging{
			Enabled:   true,
			Format:    defaultLogFormat,
			Level:     defaultLogLevel,
			Directory: defaultLogDir,
			Language:  defaultLanguage,
		},
	}
}
