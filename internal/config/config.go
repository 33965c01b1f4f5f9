// Package config assembles the console configuration from three layers:
// built-in defaults, an optional YAML file, and Z3_* environment
// variables. Later layers win, so a container deployment can run from
// environment alone while a long-lived install keeps a config file.
package config

import (
	"os"

	"github.com/joeshaw/envdecode"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

// DevSessionSecret is the insecure development fallback applied when no
// session secret is configured outside production. It must never reach
// a production deployment; Validate refuses to start with it there.
const DevSessionSecret = "fallback-secret-for-development-only-change-in-production"

// EnvVar optionally points at a YAML config file.
const EnvVar = "Z3_CONFIG"

// Config is the full console configuration.
type Config struct {
	// Env is the deployment environment: "development" or "production".
	Env string `yaml:"env" env:"Z3_ENV"`

	HTTP struct {
		// Addr is the listen address of the API server.
		Addr string `yaml:"addr" env:"Z3_HTTP_ADDR"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level" env:"Z3_LOG_LEVEL"`
		Format string `yaml:"format" env:"Z3_LOG_FORMAT"`
	} `yaml:"log"`

	MinIO struct {
		// Endpoint is the storage endpoint URL, e.g. "https://minio.example.com:9000".
		Endpoint string `yaml:"endpoint" env:"Z3_MINIO_ENDPOINT"`
		Region   string `yaml:"region" env:"Z3_MINIO_REGION"`
		// VerifyTLS enables certificate verification for TLS endpoints.
		VerifyTLS bool `yaml:"verify_tls" env:"Z3_MINIO_VERIFY_TLS"`
	} `yaml:"minio"`

	Session struct {
		// Secret seals the session cookie. Required in production.
		Secret string `yaml:"secret" env:"Z3_SESSION_SECRET"`
		// Secure forces the cookie Secure attribute: "true", "false",
		// or empty to follow the environment (on in production).
		Secure string `yaml:"secure" env:"Z3_COOKIE_SECURE"`
	} `yaml:"session"`

	Store iam.Config `yaml:"store"`
}

// Default returns the development defaults every layer starts from.
func Default() *Config {
	cfg := &Config{}
	cfg.Env = "development"
	cfg.HTTP.Addr = ":8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.MinIO.Endpoint = "http://localhost:9000"
	cfg.MinIO.Region = "us-east-1"
	cfg.Store = iam.DefaultConfig()
	return cfg
}

// Load builds the configuration: defaults, then the YAML file named by
// Z3_CONFIG (if any), then environment variables. The result is
// validated before being returned.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvVar); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file", err)
		}
	}

	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to decode environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the console runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CookieSecure resolves the session cookie Secure attribute.
func (c *Config) CookieSecure() bool {
	switch c.Session.Secure {
	case "true":
		return true
	case "false":
		return false
	}
	return c.IsProduction()
}

// Validate enforces the configuration contract. Outside production a
// missing session secret falls back to the insecure development value;
// in production that is a hard startup error.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case iam.DriverMemory, iam.DriverPostgres, iam.DriverMySQL:
	default:
		return errs.New(errs.ErrKindInvalidInput, "unknown store driver: "+string(c.Store.Driver))
	}

	if c.IsProduction() {
		if c.Session.Secret == "" || c.Session.Secret == DevSessionSecret {
			return errs.New(errs.ErrKindInvalidInput, "Z3_SESSION_SECRET must be set to a high-entropy value in production")
		}
		return nil
	}

	if c.Session.Secret == "" {
		c.Session.Secret = DevSessionSecret
	}
	return nil
}
