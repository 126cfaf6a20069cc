// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/scrapediff/scrapediff/internal/log"
)

// Key identifies a cached remote object. ETag is part of the key so a
// rewritten object never serves stale bytes.
type Key struct {
	Bucket string
	Object string
	ETag   string
}

func (k Key) String() string {
	return k.Bucket + "/" + k.Object + "@" + strings.Trim(k.ETag, `"`)
}

// Dir resolves the base cache directory.
// Precedence:
//  1. SCRAPEDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/scrapediff
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SCRAPEDIFF_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "scrapediff"), true
	}
	return "", false
}

// Enabled returns true unless SCRAPEDIFF_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SCRAPEDIFF_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Path returns where the entry for k lives and whether it exists.
func Path(k Key) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(base, bucketDir(k.Bucket), encodeKey(k.String()))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Get returns the cached bytes for k.
func Get(k Key) ([]byte, bool) {
	if !Enabled() || k.ETag == "" {
		return nil, false
	}
	p, ok := Path(k)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", k)
	return b, true
}

// Put stores data for k. Objects without an ETag are never cached.
func Put(k Key, data []byte) error {
	if !Enabled() || k.ETag == "" {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(base, bucketDir(k.Bucket))
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(k.String()))
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", k)
	return nil
}

// Purge removes entries older than maxAge and returns how many went. A
// non-positive maxAge is a no-op.
func Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}

	base, ok := Dir()
	if !ok {
		return 0, nil
	}

	removed := 0
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		removed++
		log.Debugf("removed cache file %s", path)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}

func bucketDir(bucket string) string {
	if bucket == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(bucket)
}

func encodeKey(input string) string {
	h := blake2b.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
