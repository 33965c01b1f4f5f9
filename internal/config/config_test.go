package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/z3console/internal/iam"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "us-east-1", cfg.MinIO.Region)
	assert.False(t, cfg.MinIO.VerifyTLS)
	assert.Equal(t, iam.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, DevSessionSecret, cfg.Session.Secret, "development falls back to the insecure secret")
	assert.False(t, cfg.CookieSecure())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("Z3_MINIO_ENDPOINT", "https://minio.prod.example.com")
	t.Setenv("Z3_MINIO_VERIFY_TLS", "true")
	t.Setenv("Z3_HTTP_ADDR", ":9090")
	t.Setenv("Z3_STORE_DRIVER", "postgres")
	t.Setenv("Z3_STORE_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://minio.prod.example.com", cfg.MinIO.Endpoint)
	assert.True(t, cfg.MinIO.VerifyTLS)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, iam.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "db.internal", cfg.Store.Host)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "z3console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: development
http:
  addr: ":7070"
minio:
  endpoint: "http://minio.lab:9000"
store:
  driver: mysql
  host: mysql.lab
  database: z3
`), 0o600))
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "http://minio.lab:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, iam.DriverMySQL, cfg.Store.Driver)
	assert.Equal(t, "z3", cfg.Store.Database)
}

func TestLoad_EnvWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "z3console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":7070\"\n"), 0o600))
	t.Setenv(EnvVar, path)
	t.Setenv("Z3_HTTP_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.HTTP.Addr)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing secret refused", "", true},
		{"dev fallback refused", DevSessionSecret, true},
		{"real secret accepted", "0f7d8a1be2c34459a6ee12dd34babc42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Env = "production"
			cfg.Session.Secret = tt.secret

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownStoreDriver(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "couchdb"
	assert.Error(t, cfg.Validate())
}

func TestCookieSecure(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.CookieSecure(), "off in development by default")

	cfg.Env = "production"
	assert.True(t, cfg.CookieSecure(), "on in production by default")

	cfg.Session.Secure = "false"
	assert.False(t, cfg.CookieSecure(), "explicit override wins")

	cfg.Env = "development"
	cfg.Session.Secure = "true"
	assert.True(t, cfg.CookieSecure())
}
