// README: Client authentication against the configured key store.
package clients

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Service struct {
	store  KeyStore
	logger *zap.Logger
}

func NewService(store KeyStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Authenticate checks apiKey against the client's stored digest. It returns
// ErrUnknownClient or ErrInvalidKey on rejection and a wrapped store error
// when the lookup itself fails.
func (s *Service) Authenticate(ctx context.Context, clientID, apiKey string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ErrUnknownClient
	}

	want, err := s.store.KeyDigest(ctx, clientID)
	if errors.Is(err, ErrUnknownClient) {
		return ErrUnknownClient
	}
	if err != nil {
		return fmt.Errorf("looking up key for client %s: %w", clientID, err)
	}

	if apiKey == "" || subtle.ConstantTimeCompare(Digest(apiKey), want) != 1 {
		s.logger.Info("api key rejected", zap.String("client_id", clientID))
		return ErrInvalidKey
	}
	return nil
}
