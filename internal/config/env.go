package config

import (
	"os"
	"strconv"
	"time"
)

// envPrefix namespaces every environment variable this package reads, the
// same convention the teacher used for its own sync tool config.
const envPrefix = "DRIVE_ENGINE_"

// EnvOverrides holds the values drawn from the process environment,
// already typed and parsed, so Resolve never has to re-touch os.Getenv.
type EnvOverrides struct {
	ListenAddr   *string
	DatabasePath *string
	DriveID      *string
	OwnerID      *string

	ClockSkewTolerance     *time.Duration
	WebhookDispatchTimeout *time.Duration
	ReindexRateLimit       *time.Duration

	PersistClaimedIDs *bool
	LogLevel          *string
}

// LoadEnv reads the DRIVE_ENGINE_* environment variables present in the
// process environment. A variable that is unset or fails to parse its
// expected type is left nil and silently ignored — env is the middle
// layer, not validation; Resolve validates once every layer is applied.
func LoadEnv() EnvOverrides {
	var e EnvOverrides

	if v, ok := lookupEnv("LISTEN_ADDR"); ok {
		e.ListenAddr = &v
	}
	if v, ok := lookupEnv("DATABASE_PATH"); ok {
		e.DatabasePath = &v
	}
	if v, ok := lookupEnv("DRIVE_ID"); ok {
		e.DriveID = &v
	}
	if v, ok := lookupEnv("OWNER_ID"); ok {
		e.OwnerID = &v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		e.LogLevel = &v
	}

	if v, ok := lookupDuration("CLOCK_SKEW_TOLERANCE"); ok {
		e.ClockSkewTolerance = &v
	}
	if v, ok := lookupDuration("WEBHOOK_DISPATCH_TIMEOUT"); ok {
		e.WebhookDispatchTimeout = &v
	}
	if v, ok := lookupDuration("REINDEX_RATE_LIMIT"); ok {
		e.ReindexRateLimit = &v
	}

	if v, ok := lookupBool("PERSIST_CLAIMED_IDS"); ok {
		e.PersistClaimedIDs = &v
	}

	return e
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func lookupDuration(name string) (time.Duration, bool) {
	v, ok := lookupEnv(name)
	if !ok {
		return 0, false
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}

	return d, true
}

func lookupBool(name string) (bool, bool) {
	v, ok := lookupEnv(name)
	if !ok {
		return false, false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}

	return b, true
}

// apply layers non-nil env overrides onto cfg in place.
func (e EnvOverrides) apply(cfg *Config) {
	if e.ListenAddr != nil {
		cfg.ListenAddr = *e.ListenAddr
	}
	if e.DatabasePath != nil {
		cfg.DatabasePath = *e.DatabasePath
	}
	if e.DriveID != nil {
		cfg.DriveID = *e.DriveID
	}
	if e.OwnerID != nil {
		cfg.OwnerID = *e.OwnerID
	}
	if e.LogLevel != nil {
		cfg.LogLevel = *e.LogLevel
	}
	if e.ClockSkewTolerance != nil {
		cfg.ClockSkewTolerance = *e.ClockSkewTolerance
	}
	if e.WebhookDispatchTimeout != nil {
		cfg.WebhookDispatchTimeout = *e.WebhookDispatchTimeout
	}
	if e.ReindexRateLimit != nil {
		cfg.ReindexRateLimit = *e.ReindexRateLimit
	}
	if e.PersistClaimedIDs != nil {
		cfg.PersistClaimedIDs = *e.PersistClaimedIDs
	}
}
