package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) KeyDigest(ctx context.Context, clientID string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticate(t *testing.T) {
	keys, err := ParseStaticKeys("acme:ACME_SECRET_123, masterlogistics:MASTER_SECRET_456")
	require.NoError(t, err)
	s := NewService(NewStaticKeyStore(keys), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		clientID string
		apiKey   string
		want     error
	}{
		{"valid", "acme", "ACME_SECRET_123", nil},
		{"valid second client", "masterlogistics", "MASTER_SECRET_456", nil},
		{"another client's key", "acme", "MASTER_SECRET_456", ErrInvalidKey},
		{"missing key", "acme", "", ErrInvalidKey},
		{"unknown client", "globex", "ACME_SECRET_123", ErrUnknownClient},
		{"missing client", "", "ACME_SECRET_123", ErrUnknownClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Authenticate(ctx, tt.clientID, tt.apiKey)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticateStoreFailure(t *testing.T) {
	err := NewService(failingStore{}, nil).Authenticate(context.Background(), "acme", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidKey)
	assert.NotErrorIs(t, err, ErrUnknownClient)
}

func TestParseStaticKeys(t *testing.T) {
	got, err := ParseStaticKeys(" acme:K1 ,, b:K2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"acme": "K1", "b": "K2"}, got)

	got, err = ParseStaticKeys("")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"acme", "acme:", ":key", "a:1,a:2"} {
		_, err := ParseStaticKeys(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseStaticKeysAllowsColonInKey(t *testing.T) {
	got, err := ParseStaticKeys("acme:abc:def")
	require.NoError(t, err)
	assert.Equal(t, "abc:def", got["acme"])
}
