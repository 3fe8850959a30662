// Package cache is a file-backed store for scan artifacts with optional
// gzip compression and age-based expiry.
package cache

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	dataSuffix = ".cache"
	metaSuffix = ".meta"
)

// metadata is the sidecar record written next to every cache entry. The
// data type tag is informational; decoding is driven by the caller's dest.
type metadata struct {
	Timestamp  time.Time `json:"timestamp"`
	Compressed bool      `json:"compressed"`
	DataType   string    `json:"data_type"`
	Size       int       `json:"size"`
}

// Info summarizes the cache directory contents.
type Info struct {
	TotalFiles   int    `json:"total_files"`
	TotalSize    int    `json:"total_size"`
	OldestKey    string `json:"oldest_key,omitempty"`
	NewestKey    string `json:"newest_key,omitempty"`
	ExpiredFiles int    `json:"expired_files"`
}

// Store persists JSON-encoded values under string keys. Entries older than
// the max age are treated as absent and deleted on read.
type Store struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// New creates the cache directory if needed.
func New(dir string, maxAge time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	log.Info().Str("dir", dir).Dur("max_age", maxAge).Msg("cache ready")
	return &Store{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

func (s *Store) dataPath(key string) string { return filepath.Join(s.dir, key+dataSuffix) }
func (s *Store) metaPath(key string) string { return filepath.Join(s.dir, key+metaSuffix) }

// Save encodes v as JSON and writes it under key, gzip-compressed when
// compress is set, alongside a metadata sidecar.
func (s *Store) Save(key string, v any, compress bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache %s: encode: %w", key, err)
	}

	payload := raw
	if compress {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(raw); err != nil {
			return fmt.Errorf("cache %s: compress: %w", key, err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("cache %s: compress: %w", key, err)
		}
		payload = buf.Bytes()
	}

	if err := os.WriteFile(s.dataPath(key), payload, 0o644); err != nil {
		return fmt.Errorf("cache %s: write: %w", key, err)
	}

	meta := metadata{
		Timestamp:  s.now(),
		Compressed: compress,
		DataType:   fmt.Sprintf("%T", v),
		Size:       len(raw),
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("cache %s: encode meta: %w", key, err)
	}
	if err := os.WriteFile(s.metaPath(key), rawMeta, 0o644); err != nil {
		return fmt.Errorf("cache %s: write meta: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(raw)).Bool("compressed", compress).Msg("cache saved")
	return nil
}

// Load decodes the entry under key into dest. It reports false when the
// entry is missing or expired; expired entries are removed.
func (s *Store) Load(key string, dest any) (bool, error) {
	rawMeta, err := os.ReadFile(s.metaPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache %s: read meta: %w", key, err)
	}
	var meta metadata
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return false, fmt.Errorf("cache %s: decode meta: %w", key, err)
	}

	if s.now().Sub(meta.Timestamp) > s.maxAge {
		log.Debug().Str("key", key).Msg("cache expired")
		_ = s.Delete(key)
		return false, nil
	}

	f, err := os.Open(s.dataPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache %s: open: %w", key, err)
	}
	defer f.Close()

	var r io.Reader = f
	if meta.Compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return false, fmt.Errorf("cache %s: decompress: %w", key, err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(dest); err != nil {
		return false, fmt.Errorf("cache %s: decode: %w", key, err)
	}
	return true, nil
}

// Delete removes the entry and its sidecar. Missing files are not an error.
func (s *Store) Delete(key string) error {
	for _, path := range []string{s.dataPath(key), s.metaPath(key)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cache %s: delete: %w", key, err)
		}
	}
	return nil
}

// Clear removes every cache entry in the directory.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, dataSuffix) || strings.HasSuffix(name, metaSuffix) {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
				return fmt.Errorf("cache clear: %w", err)
			}
		}
	}
	log.Info().Msg("cache cleared")
	return nil
}

// CacheInfo walks the sidecars and summarizes entry counts, sizes and ages.
func (s *Store) CacheInfo() Info {
	var info Info
	var oldest, newest time.Time

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Warn().Err(err).Msg("cache info read failed")
		return info
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		key := strings.TrimSuffix(e.Name(), metaSuffix)
		raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var meta metadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("bad cache metadata")
			continue
		}

		info.TotalFiles++
		info.TotalSize += meta.Size
		if oldest.IsZero() || meta.Timestamp.Before(oldest) {
			oldest = meta.Timestamp
			info.OldestKey = key
		}
		if newest.IsZero() || meta.Timestamp.After(newest) {
			newest = meta.Timestamp
			info.NewestKey = key
		}
		if s.now().Sub(meta.Timestamp) > s.maxAge {
			info.ExpiredFiles++
		}
	}
	return info
}

// CleanupExpired removes expired entries and returns how many were deleted.
func (s *Store) CleanupExpired() int {
	removed := 0
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Warn().Err(err).Msg("cache cleanup read failed")
		return 0
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		key := strings.TrimSuffix(e.Name(), metaSuffix)
		raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var meta metadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			continue
		}
		if s.now().Sub(meta.Timestamp) > s.maxAge {
			if err := s.Delete(key); err == nil {
				removed++
			}
		}
	}
	log.Info().Int("removed", removed).Msg("expired cache entries cleaned")
	return removed
}
