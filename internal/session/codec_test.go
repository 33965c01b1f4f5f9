package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/z3console/internal/iam"
)

func testRecord() Record {
	return Record{
		User: &iam.User{ID: "admin", Login: "admin", Status: iam.UserActive},
		Profile: iam.Profile{
			Label:    "Default",
			Endpoint: "http://localhost:9000",
			Region:   "us-east-1",
			AuthMode: iam.AuthModeAccessKey,
		},
		Credentials: &Credentials{AccessKey: "minioadmin", SecretKey: "minioadmin"},
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	token, err := codec.Seal(testRecord())
	require.NoError(t, err)
	assert.NotContains(t, token, "minioadmin", "credentials must not appear in the token")

	got, err := codec.Open(token)
	require.NoError(t, err)
	assert.Equal(t, testRecord(), got)
}

func TestCodec_TokensAreUnique(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	a, err := codec.Seal(testRecord())
	require.NoError(t, err)
	b, err := codec.Seal(testRecord())
	require.NoError(t, err)

	// fresh nonce per seal
	assert.NotEqual(t, a, b)
}

func TestCodec_Open_Rejects(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	token, err := codec.Seal(testRecord())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"too short", "AAAA"},
		{"tampered", token[:len(token)-2] + "zz"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Open(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestCodec_Open_WrongSecret(t *testing.T) {
	sealer, err := NewCodec("secret-one")
	require.NoError(t, err)
	opener, err := NewCodec("secret-two")
	require.NoError(t, err)

	token, err := sealer.Seal(testRecord())
	require.NoError(t, err)

	_, err = opener.Open(token)
	assert.Error(t, err)
}
