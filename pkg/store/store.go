// Package store persists knot documents.
//
// A document is stored as a [Record]: the serialized JSON document (see
// package io) plus a name and a modification time. Backends:
//   - memory: in-process map for tests and throwaway sessions
//   - file: one JSON file per document, for the CLI
//   - redis: shared storage for several server instances
//   - mongo: document database storage
//
// Open the configured backend with [Open]:
//
//	s, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	rec, err := s.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if rec == nil {
//	    // not found
//	}
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownBackend is returned by [Open] for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown store backend")

// Record is a stored document.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Data      json.RawMessage `json:"data" bson:"data"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewRecord returns an empty record with a fresh ID.
func NewRecord(name string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every record, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases the backend's connections.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig stores documents as files in [DefaultDir].
func DefaultConfig() Config {
	return Config{
		Backend:       BackendFile,
		RedisAddr:     "localhost:6379",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "knotedit",
	}
}

// DefaultDir returns $XDG_DATA_HOME/knotedit/documents, falling back to
// ~/.local/share/knotedit/documents.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "knotedit", "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "knotedit", "documents"), nil
}

// Open connects to the backend named by cfg.Backend. The returned store
// reports every operation to the observability store hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := strings.ToLower(cfg.Backend)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile, "":
		backend = BackendFile
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return instrument(backend, s), nil
}

// sortRecords orders records most recently updated first, then by ID.
func sortRecords(recs []*Record) {
	slices.SortFunc(recs, func(a, b *Record) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
