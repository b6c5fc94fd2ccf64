package config

import "time"

// ApplyHubDefaults sets default values for any unspecified HubConfig fields:
// zero values are replaced, explicit values are preserved.
func ApplyHubDefaults(cfg *HubConfig) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)

	if cfg.Bind == "" {
		cfg.Bind = ":43572"
	}
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = ":43573"
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 100
	}
	if cfg.HeartbeatTimeout == 0 {
		cfg.HeartbeatTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.BatteryPollInterval == 0 {
		cfg.BatteryPollInterval = 60 * time.Second
	}

	applyArtifactsDefaults(&cfg.Artifacts)
	applyTokenDefaults(&cfg.Token)
}

// ApplyAgentDefaults sets default values for any unspecified AgentConfig
// fields.
func ApplyAgentDefaults(cfg *AgentConfig) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)

	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = 60 * time.Second
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "./cache"
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyArtifactsDefaults(cfg *ArtifactsConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "memory"
	}
	if cfg.Backend == "memory" && cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:43573/artifacts"
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
	if cfg.S3.KeyPrefix == "" {
		cfg.S3.KeyPrefix = "games/"
	}
}

func applyTokenDefaults(cfg *TokenConfig) {
	if cfg.Duration == 0 {
		cfg.Duration = 15 * time.Minute
	}
}
