// Package config loads the engine's tunable knobs from YAML plus
// environment overrides, styled after the platform's gateway config
// loader: typed defaults first, then an optional YAML file, with env
// vars available for every field a deployment commonly overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"iaros/negotiation_engine/internal/negotiationerr"
	"iaros/negotiation_engine/internal/types"
)

// Config is the engine's process-wide configuration.
type Config struct {
	Environment string       `yaml:"environment"`
	Plan        PlanConfig   `yaml:"plan"`
	Redis       RedisConfig  `yaml:"redis"`
	Postgres    PostgresConfig `yaml:"postgres"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
	Logging     LoggingConfig `yaml:"logging"`
}

// PlanConfig mirrors types.NegotiationPlan's configuration knobs.
type PlanConfig struct {
	MaxRounds             int     `yaml:"max_rounds"`
	MinAcceptableUtility  float64 `yaml:"min_acceptable_utility"`
	DiscountRateAnnual    float64 `yaml:"discount_rate_annual"`
	RunMode               string  `yaml:"run_mode"`
	RoundTimeoutSeconds   int     `yaml:"round_timeout_seconds"`
	MaxConcurrentSessions int     `yaml:"max_concurrent_sessions"`
	PersonalityPreset     string  `yaml:"personality_preset"`
	RandomSeed            int64   `yaml:"random_seed"`
}

// RedisConfig configures the lifecycle event bus.
type RedisConfig struct {
	Address string `yaml:"address"`
	Stream  string `yaml:"stream"`
}

// PostgresConfig configures terminal session-state persistence.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// CollaboratorConfig configures the justification synthesis client.
type CollaboratorConfig struct {
	Endpoint       string `yaml:"endpoint"`
	CircuitBreaker bool   `yaml:"circuit_breaker"`
}

// LoggingConfig configures telemetry.New and the metrics HTTP listener.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	MetricsPort string `yaml:"metrics_port"`
}

// Load builds a Config from built-in defaults, which environment variables
// replace, and then an optional YAML file named by CONFIG_FILE, applied
// last. Any field the file sets takes precedence over both the default and
// the environment; environment variables do not override the file.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("NEGOTIATION_ENV", "development"),
		Plan: PlanConfig{
			MaxRounds:             getEnvInt("NEGOTIATION_MAX_ROUNDS", 8),
			MinAcceptableUtility:  getEnvFloat("NEGOTIATION_MIN_UTILITY", 0.7),
			DiscountRateAnnual:    getEnvFloat("NEGOTIATION_DISCOUNT_RATE", 0.05),
			RunMode:               getEnv("NEGOTIATION_RUN_MODE", string(types.RunModeSimulation)),
			RoundTimeoutSeconds:   getEnvInt("NEGOTIATION_ROUND_TIMEOUT", 30),
			MaxConcurrentSessions: getEnvInt("NEGOTIATION_MAX_CONCURRENT_SESSIONS", 8),
			PersonalityPreset:     getEnv("NEGOTIATION_PERSONALITY", string(types.PersonalityCooperative)),
			RandomSeed:            int64(getEnvInt("NEGOTIATION_RANDOM_SEED", 0)),
		},
		Redis: RedisConfig{
			Address: getEnv("REDIS_ADDRESS", "localhost:6379"),
			Stream:  getEnv("NEGOTIATION_EVENT_STREAM", "negotiation.events"),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("NEGOTIATION_POSTGRES_DSN", ""),
		},
		Collaborator: CollaboratorConfig{
			Endpoint:       getEnv("NEGOTIATION_COLLABORATOR_ENDPOINT", ""),
			CircuitBreaker: getEnvBool("NEGOTIATION_COLLABORATOR_BREAKER", true),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			MetricsPort: getEnv("METRICS_PORT", "9090"),
		},
	}

	if configFile := getEnv("CONFIG_FILE", ""); configFile != "" {
		if err := loadFile(cfg, configFile); err != nil {
			return nil, err
		}
	}

	return cfg, validate(cfg)
}

func loadFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return negotiationerr.NewConfigError("config.Load", "cannot read config file: "+err.Error())
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return negotiationerr.NewConfigError("config.Load", "cannot parse config file: "+err.Error())
	}
	return nil
}

// validate fails fast on out-of-range plan knobs: non-positive rounds,
// timeout or concurrency, a utility threshold outside [0,1], a negative
// discount rate, or an unknown run mode. Scoring weights and cadence
// factors are not part of Config and are not checked here.
func validate(cfg *Config) error {
	if cfg.Plan.MaxRounds <= 0 {
		return negotiationerr.NewConfigError("config.validate", "max_rounds must be positive")
	}
	if cfg.Plan.MinAcceptableUtility < 0 || cfg.Plan.MinAcceptableUtility > 1 {
		return negotiationerr.NewConfigError("config.validate", "min_acceptable_utility must be in [0,1]")
	}
	if cfg.Plan.DiscountRateAnnual < 0 {
		return negotiationerr.NewConfigError("config.validate", "discount_rate_annual must not be negative")
	}
	if cfg.Plan.RoundTimeoutSeconds <= 0 {
		return negotiationerr.NewConfigError("config.validate", "round_timeout_seconds must be positive")
	}
	if cfg.Plan.MaxConcurrentSessions <= 0 {
		return negotiationerr.NewConfigError("config.validate", "max_concurrent_sessions must be positive")
	}
	mode := types.RunMode(cfg.Plan.RunMode)
	if mode != types.RunModeSimulation && mode != types.RunModeEnforce {
		return negotiationerr.NewConfigError("config.validate", "run_mode must be simulation or enforce")
	}
	return nil
}

// ToPlan translates the loaded PlanConfig into a types.NegotiationPlan.
func (c *Config) ToPlan() types.NegotiationPlan {
	return types.NegotiationPlan{
		MaxRounds:             c.Plan.MaxRounds,
		MinAcceptableUtility:  c.Plan.MinAcceptableUtility,
		DiscountRateAnnual:    c.Plan.DiscountRateAnnual,
		PersonalityPreset:     types.PersonalityPreset(c.Plan.PersonalityPreset),
		RunMode:               types.RunMode(c.Plan.RunMode),
		RoundTimeoutSeconds:   c.Plan.RoundTimeoutSeconds,
		MaxConcurrentSessions: c.Plan.MaxConcurrentSessions,
		RandomSeed:            c.Plan.RandomSeed,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
