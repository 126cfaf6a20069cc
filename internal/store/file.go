// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/scrapediff/scrapediff/internal/snapshot"
	"github.com/scrapediff/scrapediff/internal/util"
)

// Formats lists the artifact selections accepted by the file store.
var Formats = []string{"json", "text", "both"}

// File writes <base>.json and/or <base>.txt into a directory.
type File struct {
	Dir  string
	JSON bool
	Text bool
}

// NewFile creates dir when needed and checks it is writable.
func NewFile(dir, format string) (*File, error) {
	abs, err := util.EnsureWritableDir(dir)
	if err != nil {
		return nil, err
	}

	f := &File{Dir: abs}
	switch format {
	case "json":
		f.JSON = true
	case "text":
		f.Text = true
	case "", "both":
		f.JSON, f.Text = true, true
	default:
		return nil, fmt.Errorf("unknown format %q, want one of %v", format, Formats)
	}

	return f, nil
}

func (f *File) Put(ctx context.Context, rec snapshot.Record) error {
	base, err := baseName(rec)
	if err != nil {
		return err
	}

	if f.JSON {
		data, err := rec.Encode()
		if err != nil {
			return err
		}
		if err := f.write(base+".json", data); err != nil {
			return err
		}
	}

	if f.Text {
		if err := f.write(base+".txt", []byte(rec.Content)); err != nil {
			return err
		}
	}

	return nil
}

func (f *File) Close() error {
	return nil
}

func (f *File) write(name string, data []byte) error {
	p := filepath.Join(f.Dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	log.Debugf("wrote %s", p)
	return nil
}
