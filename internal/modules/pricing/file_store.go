// README: Rule store reading clients/<client_id>/pricing_rules.json from disk.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"logit/internal/types"
)

// RulesFileName is the per-client document name inside the rules directory.
const RulesFileName = "pricing_rules.json"

type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) Get(_ context.Context, clientID string) (map[string]any, error) {
	if !isValidClientID(clientID) {
		return nil, types.NewValidationError("client_id", "only letters, digits, '-' and '_' are allowed")
	}
	path := filepath.Join(s.root, clientID, RulesFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocumentBytes(clientID, data)
}

// isValidClientID keeps client ids usable as a single path segment.
func isValidClientID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
