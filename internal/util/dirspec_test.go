// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirSpec(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name    string
		spec    string
		want    DirSpec
		wantErr bool
	}{
		{name: "absolute", spec: "/data/extracted", want: DirSpec{Path: "/data/extracted"}},
		{name: "relative", spec: "extracted", want: DirSpec{Path: filepath.Join(cwd, "extracted")}},
		{name: "s3 bucket only", spec: "s3://archive", want: DirSpec{Bucket: "archive"}},
		{name: "s3 with prefix", spec: "s3://archive/extracted/", want: DirSpec{Bucket: "archive", Prefix: "extracted"}},
		{name: "s3 missing bucket", spec: "s3:///x", wantErr: true},
		{name: "empty", spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Bucket != "", got.IsS3())
		})
	}

	ds, _ := ParseDirSpec("s3://archive/extracted")
	assert.Equal(t, "s3://archive/extracted", ds.String())
}

func TestExistingDir(t *testing.T) {
	dir := t.TempDir()

	got, err := ExistingDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = ExistingDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = ExistingDir(file)
	assert.ErrorIs(t, err, os.ErrInvalid)

	_, err = ExistingDir("s3://bucket")
	assert.ErrorIs(t, err, os.ErrInvalid)
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureWritableDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = EnsureWritableDir(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestExistingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	got, err := ExistingFile(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = ExistingFile(filepath.Join(dir, "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ExistingFile(dir)
	assert.ErrorIs(t, err, os.ErrInvalid)
}
