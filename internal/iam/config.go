package iam

import "time"

// DriverName identifies the repository backend.
type DriverName string

const (
	DriverMemory   DriverName = "memory"
	DriverPostgres DriverName = "postgres"
	DriverMySQL    DriverName = "mysql"
)

// Config holds all settings needed to connect to and pool a repository
// backend. The memory driver ignores everything but Driver.
type Config struct {
	// Driver selects the backend (DriverMemory, DriverPostgres, DriverMySQL).
	Driver DriverName `yaml:"driver" env:"Z3_STORE_DRIVER"`

	Host     string `yaml:"host" env:"Z3_STORE_HOST"`
	Port     int    `yaml:"port" env:"Z3_STORE_PORT"`
	User     string `yaml:"user" env:"Z3_STORE_USER"`
	Password string `yaml:"password" env:"Z3_STORE_PASSWORD"`
	Database string `yaml:"database" env:"Z3_STORE_DATABASE"`
	SSLMode  string `yaml:"sslmode" env:"Z3_STORE_SSLMODE"`

	// Pool tuning
	MaxConns int32 `yaml:"max_conns" env:"Z3_STORE_MAX_CONNS"`
	MinConns int32 `yaml:"min_conns" env:"Z3_STORE_MIN_CONNS"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"Z3_STORE_CONNECT_TIMEOUT"`
}

// DefaultConfig returns local-development repository settings: the
// synchronized in-memory driver with pool knobs suitable for either SQL
// backend if one is selected.
func DefaultConfig() Config {
	return Config{
		Driver:         DriverMemory,
		Host:           "localhost",
		SSLMode:        "disable",
		MaxConns:       10,
		MinConns:       2,
		ConnectTimeout: 5 * time.Second,
	}
}
