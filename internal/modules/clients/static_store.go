// README: In-memory key store seeded from configuration.
package clients

import (
	"context"
	"fmt"
	"strings"
)

type StaticKeyStore struct {
	digests map[string][]byte
}

// NewStaticKeyStore builds a store from client id to plaintext key.
func NewStaticKeyStore(keys map[string]string) *StaticKeyStore {
	s := &StaticKeyStore{digests: make(map[string][]byte, len(keys))}
	for id, key := range keys {
		s.digests[id] = Digest(key)
	}
	return s
}

// ParseStaticKeys reads "client:key,client2:key2". Whitespace around entries
// is ignored; empty entries are skipped.
func ParseStaticKeys(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, key, ok := strings.Cut(entry, ":")
		id, key = strings.TrimSpace(id), strings.TrimSpace(key)
		if !ok || id == "" || key == "" {
			return nil, fmt.Errorf("malformed client key entry %q, want client:key", entry)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("duplicate client key entry for %q", id)
		}
		out[id] = key
	}
	return out, nil
}

func (s *StaticKeyStore) KeyDigest(ctx context.Context, clientID string) ([]byte, error) {
	d, ok := s.digests[clientID]
	if !ok {
		return nil, ErrUnknownClient
	}
	return d, nil
}
