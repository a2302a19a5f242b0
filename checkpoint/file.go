package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

// Store persists a value table. The core never touches persistence itself;
// the driver picks a backend and calls it between or after runs.
type Store interface {
	Save(table *rl.QTable) error
	Load() (*rl.QTable, error)
}

// FileStore keeps the table as a single JSON document on disk.
type FileStore struct {
	Path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Save(table *rl.QTable) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encode value table: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("write value table to %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileStore) Load() (*rl.QTable, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read value table from %s: %w", s.Path, err)
	}
	table := &rl.QTable{}
	if err := json.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("decode value table from %s: %w", s.Path, err)
	}
	return table, nil
}
