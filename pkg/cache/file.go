package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// entryMagic starts every entry file; the expiry follows it.
var entryMagic = []byte("KNC1")

const (
	entryExt    = ".pic"
	entryHeader = 4 + 8
)

// FileCache stores one file per entry under a directory, fanned out over
// subdirectories named by the first two hex digits of the hashed key.
//
// An entry file is the magic "KNC1", the expiry as big-endian Unix
// nanoseconds (0 never expires) and then the raw picture bytes.
type FileCache struct {
	dir string
}

// NewFileCache opens the cache rooted at dir, creating dir if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the entry for key. Expired and unreadable entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry for key. The file is renamed into place, so
// concurrent readers see either the old or the new picture.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry for key.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry and returns how many were removed.
func (c *FileCache) Clear() (int, error) {
	subdirs, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, sub := range subdirs {
		if !sub.IsDir() {
			continue
		}
		dir := filepath.Join(c.dir, sub.Name())
		matches, err := filepath.Glob(filepath.Join(dir, "*"+entryExt))
		if err != nil {
			return count, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return count, err
		}
		count += len(matches)
	}
	return count, nil
}

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	buf := make([]byte, entryHeader, entryHeader+len(data))
	copy(buf, entryMagic)
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(buf[len(entryMagic):], uint64(expires.UnixNano()))
	}
	return append(buf, data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	if len(raw) < entryHeader || !bytes.HasPrefix(raw, entryMagic) {
		return nil, time.Time{}, false
	}
	if ns := binary.BigEndian.Uint64(raw[len(entryMagic):entryHeader]); ns != 0 {
		expires = time.Unix(0, int64(ns))
	}
	return raw[entryHeader:], expires, true
}

var _ Cache = (*FileCache)(nil)
