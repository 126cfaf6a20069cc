// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package store persists structured records.
package store

import (
	"context"
	"fmt"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// Store accepts one structured record at a time.
type Store interface {
	Put(ctx context.Context, rec snapshot.Record) error
	Close() error
}

// Kinds lists the store names accepted by New.
var Kinds = []string{"file", "postgres"}

// Settings carries what the concrete stores need.
type Settings struct {
	Dir    string // file store output directory
	Format string // file store artifacts: json, text or both
	DSN    string // postgres connection string
}

// New returns the store named kind.
func New(ctx context.Context, kind string, s Settings) (Store, error) {
	switch kind {
	case "", "file":
		return NewFile(s.Dir, s.Format)
	case "postgres":
		return NewPostgres(ctx, s.DSN)
	default:
		return nil, fmt.Errorf("unknown store %q, want one of %v", kind, Kinds)
	}
}

func baseName(rec snapshot.Record) (string, error) {
	if rec.Metadata.SourceFile == "" {
		return "", fmt.Errorf("record has no source file")
	}
	return snapshot.TrimExt(rec.Metadata.SourceFile), nil
}
