// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"

	awsx "github.com/scrapediff/scrapediff/internal/aws"
	"github.com/scrapediff/scrapediff/internal/util"
)

// ErrNotFound is returned by Read for a name the source does not hold.
var ErrNotFound = errors.New("source not found")

// Source abstracts where snapshot files live.
type Source interface {
	// List returns the base names of every source carrying the configured
	// extension, in name order.
	List(ctx context.Context) ([]string, error)
	// Read returns the body of a source and its last-modified time.
	Read(ctx context.Context, name string) ([]byte, time.Time, error)
	String() string
}

// New returns the Source for spec, which is either a local directory or
// s3://bucket/prefix. ext selects the files of interest, e.g. ".json".
func New(ctx context.Context, spec, ext string, s3 awsx.Settings) (Source, error) {
	ds, err := util.ParseDirSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid source %q: %w", spec, err)
	}
	log.Debugf("source.New: spec=%s ext=%s", ds, ext)

	if ds.IsS3() {
		client, err := awsx.NewS3(ctx, s3)
		if err != nil {
			return nil, err
		}
		return NewS3(client, ds.Bucket, ds.Prefix, WithS3Ext(ext)), nil
	}

	l, err := NewLocal(ds.Path, WithExt(ext))
	if err != nil {
		return nil, err
	}
	return l, nil
}
