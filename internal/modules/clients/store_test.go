package clients

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("LOGIT_DB_DSN")
	if dsn == "" {
		t.Skip("LOGIT_DB_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_api_keys (
			client_id  text PRIMARY KEY,
			key_sha256 bytea NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			revoked_at timestamptz
		)`)
	require.NoError(t, err)

	clientID := "it-" + time.Now().Format("150405.000000")
	defer db.Exec(context.Background(), `DELETE FROM client_api_keys WHERE client_id = $1`, clientID)

	store := NewStore(db)
	s := NewService(store, nil)

	assert.ErrorIs(t, s.Authenticate(ctx, clientID, "k1"), ErrUnknownClient)

	require.NoError(t, store.Put(ctx, clientID, "k1"))
	assert.NoError(t, s.Authenticate(ctx, clientID, "k1"))

	require.NoError(t, store.Put(ctx, clientID, "k2"))
	assert.ErrorIs(t, s.Authenticate(ctx, clientID, "k1"), ErrInvalidKey)
	assert.NoError(t, s.Authenticate(ctx, clientID, "k2"))

	require.NoError(t, store.Revoke(ctx, clientID))
	assert.ErrorIs(t, s.Authenticate(ctx, clientID, "k2"), ErrUnknownClient)
}
