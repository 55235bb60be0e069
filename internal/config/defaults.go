package config

const (
	defaultDataDir            = "~/.local/share/reelflow/data"
	defaultLogDir             = "~/.local/share/reelflow/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
	defaultNotifyDedupWindow  = 600
	defaultLockTimeoutSeconds = 5
	defaultLockRetryMillis    = 50
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout:     defaultNotifyTimeout,
			Review:             true,
			Approval:           true,
			Timeline:           true,
			Errors:             true,
			DedupWindowSeconds: defaultNotifyDedupWindow,
		},
		Store: Store{
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
			LockRetryMillis:    defaultLockRetryMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
