// README: Client API credentials. Only SHA-256 digests of keys are held.
package clients

import (
	"context"
	"crypto/sha256"
	"errors"
)

var (
	ErrUnknownClient = errors.New("unknown client_id")
	ErrInvalidKey    = errors.New("invalid or missing API key")
)

// KeyStore looks up the digest of a client's API key. It returns
// ErrUnknownClient when the client has no active key.
type KeyStore interface {
	KeyDigest(ctx context.Context, clientID string) ([]byte, error)
}

// Digest is the stored form of an API key.
func Digest(apiKey string) []byte {
	sum := sha256.Sum256([]byte(apiKey))
	return sum[:]
}
