// Package config loads service settings from an optional YAML file, a
// .env file and the environment, in that order of precedence (lowest
// first).
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Sequence SequenceConfig `yaml:"sequence"`
	Redis    RedisConfig    `yaml:"redis"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Auth     AuthConfig     `yaml:"auth"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener and its middleware.
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               string   `yaml:"port"`
	ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"` // 0 disables
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	ConnectTimeout string `yaml:"connect_timeout"`
}

// SequenceConfig selects where sequence numbers are allocated.
type SequenceConfig struct {
	Backend string `yaml:"backend"` // mongo, redis
}

// RedisConfig is only used by the redis sequence backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MQTTConfig configures record event publishing. An empty broker URL
// disables it.
type MQTTConfig struct {
	BrokerURL   string `yaml:"broker_url"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Required  bool   `yaml:"required"`
}

// SweepConfig configures the overdue check sweeper.
type SweepConfig struct {
	Interval string `yaml:"interval"` // "0" disables
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "8080",
			ShutdownTimeout:    "15s",
			CORSAllowedOrigins: []string{"*"},
			RateLimitPerMinute: 0,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "fleetcrm",
			ConnectTimeout: "10s",
		},
		Sequence: SequenceConfig{Backend: "mongo"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		MQTT: MQTTConfig{
			ClientID:    "fleetcrm",
			TopicPrefix: "fleetcrm",
		},
		Sweep: SweepConfig{Interval: "1h"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (CONFIG_FILE when path is empty) if it exists, then .env,
// then the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	str := map[string]*string{
		"HOST":                  &c.Server.Host,
		"PORT":                  &c.Server.Port,
		"SHUTDOWN_TIMEOUT":      &c.Server.ShutdownTimeout,
		"MONGO_URI":             &c.Mongo.URI,
		"MONGO_DB":              &c.Mongo.Database,
		"MONGO_CONNECT_TIMEOUT": &c.Mongo.ConnectTimeout,
		"SEQUENCE_BACKEND":      &c.Sequence.Backend,
		"REDIS_ADDR":            &c.Redis.Addr,
		"REDIS_PASSWORD":        &c.Redis.Password,
		"MQTT_BROKER_URL":       &c.MQTT.BrokerURL,
		"MQTT_CLIENT_ID":        &c.MQTT.ClientID,
		"MQTT_TOPIC_PREFIX":     &c.MQTT.TopicPrefix,
		"JWT_SECRET":            &c.Auth.JWTSecret,
		"SWEEP_INTERVAL":        &c.Sweep.Interval,
		"LOG_LEVEL":             &c.Log.Level,
		"LOG_FORMAT":            &c.Log.Format,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":              &c.Redis.DB,
		"RATE_LIMIT_PER_MINUTE": &c.Server.RateLimitPerMinute,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTH_REQUIRED %q: %w", v, err)
		}
		c.Auth.Required = b
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DB is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Server.Port)
	}
	switch c.Sequence.Backend {
	case "mongo":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required with the redis sequence backend")
		}
	default:
		return fmt.Errorf("invalid SEQUENCE_BACKEND %q (valid: mongo, redis)", c.Sequence.Backend)
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	durations := map[string]string{
		"SHUTDOWN_TIMEOUT":      c.Server.ShutdownTimeout,
		"MONGO_CONNECT_TIMEOUT": c.Mongo.ConnectTimeout,
		"SWEEP_INTERVAL":        c.Sweep.Interval,
	}
	for key, v := range durations {
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return fmt.Errorf("invalid %s %q", key, v)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (valid: text, json)", c.Log.Format)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// GetShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 15*time.Second)
}

// GetConnectTimeout returns the MongoDB connect timeout.
func (c *Config) GetConnectTimeout() time.Duration {
	return parseDuration(c.Mongo.ConnectTimeout, 10*time.Second)
}

// GetSweepInterval returns the sweep interval; zero disables the sweeper.
func (c *Config) GetSweepInterval() time.Duration {
	return parseDuration(c.Sweep.Interval, time.Hour)
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
