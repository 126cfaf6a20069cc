// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3://"

// DirSpec is a parsed directory specification. Either Path is set (a local
// directory) or Bucket is set (an S3 location with optional Prefix).
type DirSpec struct {
	Path   string
	Bucket string
	Prefix string
}

// IsS3 reports whether the spec names an S3 location.
func (d DirSpec) IsS3() bool {
	return d.Bucket != ""
}

func (d DirSpec) String() string {
	if d.IsS3() {
		if d.Prefix == "" {
			return s3Scheme + d.Bucket
		}
		return s3Scheme + d.Bucket + "/" + d.Prefix
	}
	return d.Path
}

// ParseDirSpec parses either a local directory path or s3://bucket[/prefix].
// Local paths are made absolute but not checked for existence; use
// ExistingDir for that.
func ParseDirSpec(spec string) (DirSpec, error) {
	if spec == "" {
		return DirSpec{}, os.ErrInvalid
	}

	if strings.HasPrefix(spec, s3Scheme) {
		rest := strings.TrimPrefix(spec, s3Scheme)
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return DirSpec{}, fmt.Errorf("missing bucket in %q", spec)
		}
		prefix = strings.Trim(prefix, "/")
		return DirSpec{Bucket: bucket, Prefix: prefix}, nil
	}

	dir := spec
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return DirSpec{}, err
		}
		dir = filepath.Join(cwd, dir)
	}

	return DirSpec{Path: filepath.Clean(dir)}, nil
}

// ExistingDir returns the absolute form of dir. It returns an error if the fs
// entry does not exist or is not a directory.
func ExistingDir(dir string) (string, error) {
	ds, err := ParseDirSpec(dir)
	if err != nil {
		return "", err
	}
	if ds.IsS3() {
		return "", fmt.Errorf("%s is not a local directory: %w", dir, os.ErrInvalid)
	}

	if r, err := os.Stat(ds.Path); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return ds.Path, nil
}

// ExistingFile returns the absolute form of path. It returns an error if the
// fs entry does not exist or is a directory.
func ExistingFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if r, err := os.Stat(abs); err != nil {
		return "", err
	} else if r.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", path, os.ErrInvalid)
	}
	return abs, nil
}

// EnsureWritableDir creates dir when missing and proves it is writable by
// creating and removing a probe file.
func EnsureWritableDir(dir string) (string, error) {
	ds, err := ParseDirSpec(dir)
	if err != nil {
		return "", err
	}
	if ds.IsS3() {
		return "", fmt.Errorf("%s is not a local directory: %w", dir, os.ErrInvalid)
	}

	if err := os.MkdirAll(ds.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", ds.Path, err)
	}

	probe, err := os.CreateTemp(ds.Path, ".scrapediff-probe-*")
	if err != nil {
		return "", fmt.Errorf("%s is not writable: %w", ds.Path, err)
	}
	name := probe.Name()
	cerr := probe.Close()
	rerr := os.Remove(name)
	if err := errors.Join(cerr, rerr); err != nil {
		return "", fmt.Errorf("%s is not writable: %w", ds.Path, err)
	}

	return ds.Path, nil
}
