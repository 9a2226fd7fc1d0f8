package config

import "time"

const (
	defaultListenAddr   = ":8080"
	defaultDatabasePath = "drive-engine.db"

	defaultClockSkewTolerance     = 30 * time.Second
	defaultWebhookDispatchTimeout = 10 * time.Second
	defaultReindexRateLimit       = 5 * time.Minute
	defaultKeepBothSuffixFormat   = "%s (%d)%s"

	defaultLogLevel = "info"
)

// DefaultConfig returns the configuration a drive engine process starts
// from before any file, environment, or flag override is applied.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   defaultListenAddr,
		DatabasePath: defaultDatabasePath,

		ClockSkewTolerance:     defaultClockSkewTolerance,
		WebhookDispatchTimeout: defaultWebhookDispatchTimeout,
		ReindexRateLimit:       defaultReindexRateLimit,
		KeepBothSuffixFormat:   defaultKeepBothSuffixFormat,

		PersistClaimedIDs: true,
		LogLevel:          defaultLogLevel,
	}
}
