package config

const (
	defaultDataDir               = "~/.local/share/hanru"
	defaultInboxDir              = "~/.local/share/hanru/inbox"
	defaultLogDir                = "~/.local/share/hanru/logs"
	defaultBackendURL            = "http://127.0.0.1:8000"
	defaultBackendTimeoutSeconds = 30
	defaultProvider              = "google"
	defaultBatchSize             = 5
	defaultCompletedPollSeconds  = 10
	defaultLogsPollSeconds       = 5
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			InboxDir: defaultInboxDir,
			LogDir:   defaultLogDir,
		},
		Backend: Backend{
			URL:            defaultBackendURL,
			TimeoutSeconds: defaultBackendTimeoutSeconds,
		},
		Translation: Translation{
			Provider:  defaultProvider,
			BatchSize: defaultBatchSize,
		},
		Workflow: Workflow{
			CompletedPollInterval: defaultCompletedPollSeconds,
			LogsPollInterval:      defaultLogsPollSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
