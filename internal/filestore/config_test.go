package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koustreak/z3console/internal/iam"
)

func TestConfigFromProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile iam.Profile
		want    Config
	}{
		{
			name: "plain http endpoint",
			profile: iam.Profile{
				Endpoint: "http://minio.example.com:9000",
				Region:   "us-east-1",
			},
			want: Config{
				Provider:  ProviderMinIO,
				Endpoint:  "minio.example.com:9000",
				AccessKey: "ak",
				SecretKey: "sk",
				Region:    "us-east-1",
			},
		},
		{
			name: "https endpoint with verification",
			profile: iam.Profile{
				Endpoint:  "https://minio.example.com",
				VerifyTLS: true,
			},
			want: Config{
				Provider:  ProviderMinIO,
				Endpoint:  "minio.example.com:443",
				AccessKey: "ak",
				SecretKey: "sk",
				UseSSL:    true,
			},
		},
		{
			name: "https endpoint without verification skips verify",
			profile: iam.Profile{
				Endpoint: "https://minio.local:9443",
			},
			want: Config{
				Provider:           ProviderMinIO,
				Endpoint:           "minio.local:9443",
				AccessKey:          "ak",
				SecretKey:          "sk",
				UseSSL:             true,
				InsecureSkipVerify: true,
			},
		},
		{
			name: "unparseable endpoint falls back to local default",
			profile: iam.Profile{
				Endpoint: "minio.local",
			},
			want: Config{
				Provider:  ProviderMinIO,
				Endpoint:  "localhost:9000",
				AccessKey: "ak",
				SecretKey: "sk",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigFromProfile(tt.profile, "ak", "sk")
			assert.Equal(t, &tt.want, got)
		})
	}
}
