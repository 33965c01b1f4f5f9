package filestore

import (
	"github.com/koustreak/z3console/internal/endpoint"
	"github.com/koustreak/z3console/internal/iam"
)

// Provider identifies the object storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds all settings needed to connect to an object storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// InsecureSkipVerify disables certificate verification when UseSSL
	// is on. Only meant for self-signed local deployments.
	InsecureSkipVerify bool

	// Region is used by region-aware backends.
	Region string
}

// ConfigFromProfile derives a client Config from a connection profile
// and the credentials validated for it. The profile endpoint goes
// through the same forgiving parse as at login, so a client built here
// is configured identically to the one that validated the credentials.
func ConfigFromProfile(p iam.Profile, accessKey, secretKey string) *Config {
	ep := endpoint.Parse(p.Endpoint)
	return &Config{
		Provider:           ProviderMinIO,
		Endpoint:           ep.Addr(),
		AccessKey:          accessKey,
		SecretKey:          secretKey,
		UseSSL:             ep.UseTLS,
		InsecureSkipVerify: ep.UseTLS && !p.VerifyTLS,
		Region:             p.Region,
	}
}
