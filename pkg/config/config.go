// Package config loads process configuration via layered viper sources
// (flags > env > YAML file > defaults), mapstructure decode hooks for
// time.Duration, and go-playground/validator struct-tag validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"
)

// envPrefix is the environment variable prefix for every config key, e.g.
// ARCADE_BIND for bind, or ARCADE_TOKEN_SECRET for token.secret.
const envPrefix = "ARCADE"

// HubConfig configures the cmd/hub process: the session protocol server,
// the HTTP surface the distributor depends on, and the ambient stack.
type HubConfig struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`

	// Bind is the session protocol server's listen address, e.g. ":7777".
	Bind string `mapstructure:"bind" validate:"required" yaml:"bind"`

	// HTTPBind is the hub HTTP surface's listen address, e.g. ":8081".
	HTTPBind string `mapstructure:"http_bind" validate:"required" yaml:"http_bind"`

	// MaxConnections bounds concurrently accepted device sessions.
	MaxConnections int `mapstructure:"max_connections" validate:"required,gt=0" yaml:"max_connections"`

	// HeartbeatTimeout disconnects a session that sends nothing for this
	// long.
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat_timeout" validate:"required,gt=0" yaml:"heartbeat_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// BatteryPollInterval is how often the battery monitor re-requests
	// BATTERY_STATUS from every connected device (spec.md §5/§6).
	BatteryPollInterval time.Duration `mapstructure:"battery_poll_interval" validate:"required,gt=0" yaml:"battery_poll_interval"`

	NameStore NameStoreConfig `mapstructure:"name_store" yaml:"name_store"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
	Token     TokenConfig     `mapstructure:"token" yaml:"token"`
}

// NameStoreConfig configures the badger-backed custom-device-name store
// (pkg/namestore).
type NameStoreConfig struct {
	// Dir is the on-disk directory for the Badger database. Empty uses an
	// in-memory store (suitable for tests and ephemeral local-dev).
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// ArtifactsConfig selects and configures the artifact store backend
// (pkg/artifactstore).
type ArtifactsConfig struct {
	// Backend selects the artifactstore.Store implementation: "memory" or
	// "s3".
	Backend string `mapstructure:"backend" validate:"required,oneof=memory s3" yaml:"backend"`

	// BaseURL prefixes signed URLs from the memory backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`

	S3 S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

// S3Config configures the S3-backed artifact store.
type S3Config struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Region          string `mapstructure:"region" yaml:"region,omitempty"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	KeyPrefix       string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`
	ForcePathStyle  bool   `mapstructure:"force_path_style" yaml:"force_path_style,omitempty"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`
}

// TokenConfig configures device bearer-token signing (pkg/hubapi/devicetoken).
type TokenConfig struct {
	Secret   string        `mapstructure:"secret" validate:"required,min=32" yaml:"secret"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration,omitempty"`
}

// AgentConfig configures the cmd/agent process: the delta-sync distributor
// and self-updater running on a client Windows host.
type AgentConfig struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// HubURL is the hub's HTTP base URL, e.g. "https://hub.internal:8081".
	HubURL string `mapstructure:"hub_url" validate:"required,url" yaml:"hub_url"`

	// MACAddress identifies this client for game-sync traffic.
	MACAddress string `mapstructure:"mac_address" validate:"required" yaml:"mac_address"`

	// MachineID identifies this client for self-update traffic.
	MachineID string `mapstructure:"machine_id" yaml:"machine_id,omitempty"`

	// GamesRoot is the local directory game installs live under.
	GamesRoot string `mapstructure:"games_root" validate:"required" yaml:"games_root"`

	// CacheDir caches the self-update APK and its metadata.
	CacheDir string `mapstructure:"cache_dir" validate:"required" yaml:"cache_dir"`

	// SyncInterval is how often the agent polls the hub for status/updates.
	SyncInterval time.Duration `mapstructure:"sync_interval" validate:"required,gt=0" yaml:"sync_interval"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// LoadHub loads HubConfig from file, environment, and defaults
// split per-process.
func LoadHub(configPath string) (*HubConfig, error) {
	var cfg HubConfig
	if err := load(configPath, &cfg); err != nil {
		return nil, err
	}
	ApplyHubDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("config: hub config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadAgent loads AgentConfig from file, environment, and defaults.
func LoadAgent(configPath string) (*AgentConfig, error) {
	var cfg AgentConfig
	if err := load(configPath, &cfg); err != nil {
		return nil, err
	}
	ApplyAgentDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("config: agent config validation failed: %w", err)
	}
	return &cfg, nil
}

func load(configPath string, out interface{}) error {
	// ExperimentalBindStruct lets Unmarshal consult ARCADE_* variables for
	// every struct key, including keys absent from the file (or no file).
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return err
	}
	if err := v.Unmarshal(out, viper.DecodeHook(durationDecodeHook())); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read config file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

var validate = validator.New()

func validateStruct(cfg interface{}) error {
	return validate.Struct(cfg)
}

// Save writes cfg to path as YAML with restricted permissions, since hub and
// agent configs both carry secrets (token signing key, S3 credentials).
func Save(cfg interface{}, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}
