package config

// Config holds runtime configuration for the server.
type Config struct {
	Port          string
	Games         []string
	PollInterval  Duration
	SourceTimeout Duration
	MergeWindow   Duration
	AdminToken    string
	Breaker       BreakerConfig
	Cache         CacheConfig
	Sources       SourcesConfig
	Store         StoreConfig
	Snapshots     SnapshotConfig
	Metrics       MetricsConfig
}

// BreakerConfig controls per-source circuit breaking.
type BreakerConfig struct {
	Failures int
	Cooldown Duration
}

// CacheConfig holds the freshness-tier TTL bands.
type CacheConfig struct {
	TTLLive     Duration
	TTLUpcoming Duration
	TTLFinished Duration
}

// StoreConfig selects the durable store backend ("memory" or "sqlite").
type StoreConfig struct {
	Backend string
	Path    string
}

// SnapshotConfig controls on-disk feed snapshots.
type SnapshotConfig struct {
	Enabled bool
	Dir     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:          envOrDefault(envPort, defaultPort),
		Games:         listEnvOrDefault(envGames, defaultGames),
		PollInterval:  durationEnvOrDefault(envPollInterval, defaultPollInterval),
		SourceTimeout: durationEnvOrDefault(envSourceTimeout, defaultSourceTimeout),
		MergeWindow:   durationEnvOrDefault(envMergeWindow, defaultMergeWindow),
		AdminToken:    envOrDefault(envAdminToken, ""),
		Breaker: BreakerConfig{
			Failures: intEnvOrDefault(envBreakerTrips, defaultBreakerFailures),
			Cooldown: durationEnvOrDefault(envBreakerCool, defaultBreakerCooldown),
		},
		Cache: CacheConfig{
			TTLLive:     durationEnvOrDefault(envCacheTTLLive, defaultTTLLive),
			TTLUpcoming: durationEnvOrDefault(envCacheTTLUpcom, defaultTTLUpcoming),
			TTLFinished: durationEnvOrDefault(envCacheTTLFinal, defaultTTLFinished),
		},
		Sources: loadSources(),
		Store: StoreConfig{
			Backend: envOrDefault(envStoreBackend, defaultStoreBackend),
			Path:    envOrDefault(envStorePath, defaultStorePath),
		},
		Snapshots: SnapshotConfig{
			Enabled: boolEnvOrDefault(envSnapshotOn, false),
			Dir:     envOrDefault(envSnapshotDir, defaultSnapshotDir),
		},
		Metrics: loadMetrics(),
	}
}
