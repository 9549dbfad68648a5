package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

// FileStore is a file-based tree store.
// Trees are stored as JSON files named after the tree.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based store.
// If baseDir is empty, defaults to ~/.local/share/kintree/trees/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "kintree", "trees")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) treePath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Load(ctx context.Context, name string) (*family.Tree, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.read(s.treePath(name))
	if err != nil {
		return nil, err
	}
	t, err := graph.ToTree(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", name, err)
	}
	return t, nil
}

func (s *FileStore) Save(ctx context.Context, name string, t *family.Tree) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(newRecord(name, t), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write then rename so readers never see a partial file.
	tmp, err := os.CreateTemp(s.baseDir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tree file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.treePath(name)); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.treePath(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove tree file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var out []Info
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok || ValidateName(name) != nil {
			continue
		}
		rec, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, Info{Name: name, People: len(rec.Document.People), UpdatedAt: rec.UpdatedAt})
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for tree files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) read(path string) (record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return record{}, ErrNotFound
		}
		return record{}, fmt.Errorf("read tree file: %w", err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("parse tree file: %w", err)
	}
	return rec, nil
}

var _ Store = (*FileStore)(nil)
