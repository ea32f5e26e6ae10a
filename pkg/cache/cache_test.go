package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "a", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(bad) = %v, %v; want a miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry present after Clear")
	}

	gone, err := NewFileCache(filepath.Join(t.TempDir(), "x"))
	if err != nil {
		t.Fatal(err)
	}
	_ = os.RemoveAll(gone.Dir())
	if n, err := gone.Clear(); n != 0 || err != nil {
		t.Errorf("Clear() on missing dir = %d, %v", n, err)
	}
}

func TestEntryPath(t *testing.T) {
	c := &FileCache{dir: "cache"}
	seen := make(map[string]string)
	for _, key := range []string{"render:a", "render:b", "", "key with spaces/and/slashes"} {
		path := c.path(key)
		if path != c.path(key) {
			t.Errorf("path(%q) is not stable", key)
		}
		sub, name := filepath.Split(strings.TrimPrefix(path, "cache"+string(filepath.Separator)))
		if len(sub) != 3 || !strings.HasSuffix(name, entryExt) || len(name) != 62+len(entryExt) {
			t.Errorf("path(%q) = %q, want cache/xx/<62 hex digits>%s", key, path, entryExt)
		}
		if other, ok := seen[path]; ok {
			t.Errorf("keys %q and %q share %q", key, other, path)
		}
		seen[path] = key
	}
}

func TestRenderKey(t *testing.T) {
	tests := []struct {
		name       string
		dot1, fmt1 string
		dot2, fmt2 string
		same       bool
	}{
		{"deterministic", "graph G {}", "svg", "graph G {}", "svg", true},
		{"format", "graph G {}", "svg", "graph G {}", "png", false},
		{"source", "graph G {}", "svg", "graph G { a }", "svg", false},
		{"boundary", "vg", "s", "g", "sv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1, k2 := RenderKey(tt.dot1, tt.fmt1), RenderKey(tt.dot2, tt.fmt2)
			if (k1 == k2) != tt.same {
				t.Errorf("RenderKey equal = %v, want %v (%q, %q)", k1 == k2, tt.same, k1, k2)
			}
			if !strings.HasPrefix(k1, "render:") || len(k1) != len("render:")+64 {
				t.Errorf("RenderKey = %q, want render: and 64 hex digits", k1)
			}
		})
	}
}

func TestEntryEncoding(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0, 0xff}
	exp := time.Unix(1700000000, 42)

	data, got, ok := decodeEntry(encodeEntry(png, exp))
	if !ok || string(data) != string(png) || !got.Equal(exp) {
		t.Errorf("decodeEntry() = %v, %v, %v", data, got, ok)
	}
	if _, got, ok := decodeEntry(encodeEntry(nil, time.Time{})); !ok || !got.IsZero() {
		t.Errorf("entry without expiry decoded as %v, %v", got, ok)
	}
	if _, _, ok := decodeEntry([]byte("KNC1")); ok {
		t.Error("truncated header accepted")
	}
}
