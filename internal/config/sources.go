package config

import "time"

const (
	envPandaBaseURL  = "PANDASCORE_BASE_URL"
	envPandaToken    = "PANDASCORE_TOKEN"
	envPandaInterval = "PANDASCORE_MIN_INTERVAL"
	envDotaBaseURL   = "OPENDOTA_BASE_URL"
	envDotaInterval  = "OPENDOTA_MIN_INTERVAL"
	envHLTVInterval  = "HLTV_MIN_INTERVAL"
	envFixtureOn     = "FIXTURE_SOURCE_ENABLED"

	defaultPandaBaseURL = "https://api.pandascore.co"
	defaultDotaBaseURL  = "https://api.opendota.com/api"

	// API-keyed sources tolerate a faster cadence than scraped ones.
	defaultPandaInterval = 2 * Duration(time.Second)
	defaultDotaInterval  = 5 * Duration(time.Second)
	defaultHLTVInterval  = 10 * Duration(time.Second)
)

// PandaScoreConfig controls how we talk to the PandaScore API.
type PandaScoreConfig struct {
	BaseURL     string
	Token       string
	MinInterval Duration
}

// OpenDotaConfig controls how we talk to the OpenDota API.
type OpenDotaConfig struct {
	BaseURL     string
	MinInterval Duration
}

// HLTVConfig controls the HLTV source.
type HLTVConfig struct {
	MinInterval Duration
}

// SourcesConfig groups per-source settings.
type SourcesConfig struct {
	PandaScore PandaScoreConfig
	OpenDota   OpenDotaConfig
	HLTV       HLTVConfig
	Fixture    bool
}

func loadSources() SourcesConfig {
	return SourcesConfig{
		PandaScore: PandaScoreConfig{
			BaseURL:     envOrDefault(envPandaBaseURL, defaultPandaBaseURL),
			Token:       envOrDefault(envPandaToken, ""),
			MinInterval: durationEnvOrDefault(envPandaInterval, defaultPandaInterval),
		},
		OpenDota: OpenDotaConfig{
			BaseURL:     envOrDefault(envDotaBaseURL, defaultDotaBaseURL),
			MinInterval: durationEnvOrDefault(envDotaInterval, defaultDotaInterval),
		},
		HLTV: HLTVConfig{
			MinInterval: durationEnvOrDefault(envHLTVInterval, defaultHLTVInterval),
		},
		Fixture: boolEnvOrDefault(envFixtureOn, true),
	}
}
