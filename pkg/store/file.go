package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kerrors "github.com/matzehuels/knotedit/pkg/errors"
)

// FileStore is a file-based document store for the CLI.
// Records are stored as JSON files named by their ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, [DefaultDir] is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// recordPath returns the file of a record. IDs must be UUIDs so they cannot
// escape the base directory.
func (s *FileStore) recordPath(id string) (string, error) {
	if err := kerrors.ValidateDocumentID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	path, err := s.recordPath(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return readRecord(path)
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	path, err := s.recordPath(rec.ID)
	if err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.recordPath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

// List reads every record in the directory. Files that do not parse are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var out []*Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := readRecord(filepath.Join(s.baseDir, entry.Name()))
		if err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the document files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
