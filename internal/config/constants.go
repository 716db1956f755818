package config

import "time"

const (
	envPort          = "PORT"
	envGames         = "GAMES"
	envPollInterval  = "POLL_INTERVAL"
	envSourceTimeout = "SOURCE_TIMEOUT"
	envMergeWindow   = "MERGE_WINDOW"
	envBreakerTrips  = "BREAKER_FAILURES"
	envBreakerCool   = "BREAKER_COOLDOWN"
	envCacheTTLLive  = "CACHE_TTL_LIVE"
	envCacheTTLUpcom = "CACHE_TTL_UPCOMING"
	envCacheTTLFinal = "CACHE_TTL_FINISHED"
	envAdminToken    = "ADMIN_TOKEN"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envStoreBackend  = "STORE_BACKEND"
	envStorePath     = "STORE_PATH"
	envSnapshotOn    = "SNAPSHOT_ENABLED"
	envSnapshotDir   = "SNAPSHOT_DIR"

	defaultPort = "4000"
	// Conservative default poll interval to respect upstream quotas.
	defaultPollInterval = 2 * Duration(time.Minute)
	// Bound on any single source call within one aggregate fetch.
	defaultSourceTimeout = 10 * Duration(time.Second)
	// Providers disagree on scheduled times by minutes, not hours.
	defaultMergeWindow = 30 * Duration(time.Minute)

	defaultBreakerFailures = 5
	defaultBreakerCooldown = 60 * Duration(time.Second)

	// Freshness bands: live data goes stale fastest.
	defaultTTLLive     = 30 * Duration(time.Second)
	defaultTTLUpcoming = 5 * Duration(time.Minute)
	defaultTTLFinished = 30 * Duration(time.Minute)

	defaultMetricsPort  = "9090"
	defaultStoreBackend = "memory"
	defaultStorePath    = "data/matches.db"
	defaultSnapshotDir  = "data/snapshots"
)

var defaultGames = []string{"lol", "csgo", "dota2", "valorant"}
