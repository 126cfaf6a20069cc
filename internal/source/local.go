// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/scrapediff/scrapediff/internal/util"
)

// Local is a directory of snapshot files.
type Local struct {
	Dir string
	Ext string
}

type LocalOption = func(l *Local) error

// NewLocal returns a Local rooted at dir, which must exist.
func NewLocal(dir string, options ...LocalOption) (*Local, error) {
	abs, err := util.ExistingDir(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid directory %s: %w", dir, err)
	}

	l := &Local{Dir: abs, Ext: ".json"}
	for _, opt := range options {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// WithExt selects the file extension to list. An empty ext keeps the default.
func WithExt(ext string) LocalOption {
	return func(l *Local) error {
		if ext != "" {
			l.Ext = normalizeExt(ext)
		}
		return nil
	}
}

func (l *Local) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.Dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), l.Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	log.Debugf("local list: dir=%s count=%d", l.Dir, len(names))

	return names, nil
}

func (l *Local) Read(ctx context.Context, name string) ([]byte, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	p := l.path(name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, time.Time{}, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return data, info.ModTime(), nil
}

func (l *Local) String() string {
	return l.Dir
}

// path resolves name inside the directory. Names carrying a directory of their
// own are used as given.
func (l *Local) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Dir, filepath.Base(name))
}

func normalizeExt(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
