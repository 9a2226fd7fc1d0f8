// Package config resolves one drive engine process's settings through
// the teacher's four-layer override chain — defaults, config file,
// environment, CLI flags — narrowed from a multi-drive OneDrive sync
// tool's config surface down to the single EngineConfig a drive engine
// process needs (spec Ambient Stack, "Configuration").
package config

import "time"

// Config is the fully resolved configuration for one drive engine
// process. Durations are plain time.Duration here; the TOML file
// representation is a parseable string (e.g. "30s"), the same
// string-now-parse-later convention the teacher uses for its own
// "50GB"/"10MiB" size fields (internal/config/validate.go ParseSize).
type Config struct {
	ListenAddr   string
	DatabasePath string
	DriveID      string
	OwnerID      string

	// ClockSkewTolerance is the configured signature-proof timestamp
	// tolerance (spec §4.2). It is resolved and validated here only; the
	// auth package does not read it and applies its own fixed 30-second
	// challenge window.
	ClockSkewTolerance time.Duration

	// WebhookDispatchTimeout bounds a single subscriber POST (spec §4.8).
	WebhookDispatchTimeout time.Duration

	// ReindexRateLimit is the configured search-reindex rate limit (spec
	// §4.11). It is resolved and validated here only; the search index
	// does not read it and applies its own fixed 5-minute window.
	ReindexRateLimit time.Duration

	// KeepBothSuffixFormat is the configured `fmt.Sprintf` pattern for
	// KEEP_BOTH renames (spec §4.3, "name (n).ext"). It is resolved and
	// validated here only; directory.Resolve does not read it and always
	// uses "%s (%d)%s".
	KeepBothSuffixFormat string

	// PersistClaimedIDs toggles whether the claimed-UUID set and
	// state-diff log are written to SQLite or kept in-memory only.
	// DefaultConfig turns it on.
	PersistClaimedIDs bool

	LogLevel string
}

// fileConfig is the TOML file's on-disk shape: identical to Config
// except every duration is a parseable string, since BurntSushi/toml
// has no built-in decoding for time.Duration.
type fileConfig struct {
	ListenAddr   string `toml:"listen_addr"`
	DatabasePath string `toml:"database_path"`
	DriveID      string `toml:"drive_id"`
	OwnerID      string `toml:"owner_id"`

	ClockSkewTolerance     string `toml:"clock_skew_tolerance"`
	WebhookDispatchTimeout string `toml:"webhook_dispatch_timeout"`
	ReindexRateLimit       string `toml:"reindex_rate_limit"`

	KeepBothSuffixFormat string `toml:"keep_both_suffix_format"`
	PersistClaimedIDs    *bool  `toml:"persist_claimed_ids"`
	LogLevel             string `toml:"log_level"`
}
