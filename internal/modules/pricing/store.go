// README: Rule store backed by PostgreSQL (client_pricing_rules.rules jsonb).
package pricing

import (
	"context"
	"encoding/json"
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

func (s *Store) Get(ctx context.Context, clientID string) (map[string]any, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT rules
		FROM client_pricing_rules
		WHERE client_id = $1`, clientID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	return ParseDocumentBytes(clientID, raw)
}

// Put stores or replaces a client's rule document.
func (s *Store) Put(ctx context.Context, clientID string, doc map[string]any) error {
	if _, err := DecodeRuleSet(clientID, Merge(DefaultDocument(), doc)); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO client_pricing_rules (client_id, rules, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (client_id) DO UPDATE SET rules = EXCLUDED.rules, updated_at = NOW()`,
		clientID, raw,
	)
	return err
}
