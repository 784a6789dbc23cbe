// README: Key store backed by PostgreSQL (client_api_keys).
package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) KeyDigest(ctx context.Context, clientID string) ([]byte, error) {
	var digest []byte
	err := s.db.QueryRow(ctx, `
		SELECT key_sha256
		FROM client_api_keys
		WHERE client_id = $1 AND revoked_at IS NULL`, clientID,
	).Scan(&digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownClient
	}
	if err != nil {
		return nil, fmt.Errorf("querying api key: %w", err)
	}
	return digest, nil
}

// Put issues or rotates a client's key.
func (s *Store) Put(ctx context.Context, clientID, apiKey string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_api_keys (client_id, key_sha256, created_at, revoked_at)
		VALUES ($1, $2, now(), NULL)
		ON CONFLICT (client_id)
		DO UPDATE SET key_sha256 = EXCLUDED.key_sha256, created_at = now(), revoked_at = NULL`,
		clientID, Digest(apiKey),
	)
	if err != nil {
		return fmt.Errorf("storing api key: %w", err)
	}
	return nil
}

// Revoke disables a client's key. Revoking an unknown client is a no-op.
func (s *Store) Revoke(ctx context.Context, clientID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE client_api_keys SET revoked_at = now()
		WHERE client_id = $1 AND revoked_at IS NULL`, clientID,
	)
	if err != nil {
		return fmt.Errorf("revoking api key: %w", err)
	}
	return nil
}
