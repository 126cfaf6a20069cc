// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// writeRecord stores a structured record the way the file store names it.
func writeRecord(t *testing.T, dir, entity, stamp string, listing snapshot.Listing, blocked bool) {
	t.Helper()
	base := fmt.Sprintf("airbnb_%s_%s", entity, stamp)
	rec := snapshot.Record{
		Metadata: snapshot.Metadata{
			SourceFile: base + ".html",
			Timestamp:  stamp,
			EntityID:   entity,
			Blocked:    blocked,
		},
		Listing: listing,
		Content: "conteúdo " + stamp,
	}
	data, err := rec.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, base+".json"), data, 0o600))
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRecord(t, dir, "1", "2025-01-01T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Casa"),
		"price": snapshot.NumberValue(100),
	}, false)
	writeRecord(t, dir, "1", "2025-01-02T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Casa"),
		"price": snapshot.NumberValue(100),
	}, false)
	writeRecord(t, dir, "1", "2025-01-03T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Casa"),
		"price": snapshot.NumberValue(120),
	}, false)
	writeRecord(t, dir, "2", "2025-01-01T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Apê"),
	}, false)
	writeRecord(t, dir, "2", "2025-01-02T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Apê"),
	}, false)
	writeRecord(t, dir, "3", "2025-01-01T00-00-00", snapshot.Listing{
		"title": snapshot.StringValue("Sítio"),
	}, false)
	writeRecord(t, dir, "3", "2025-01-02T00-00-00", snapshot.Listing{}, true)
	return dir
}

// run builds the app and runs args, returning what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "scrapediff.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("prefix: airbnb\n"), 0o600))
	t.Setenv("SCRAPEDIFF_CFG_FILE", cfg)

	args = append([]string{"scrapediff"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = io.Discard

	err = app.Run(context.Background(), args)
	return buf.String(), err
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, 1, ExitStatus(configErrorf("bad %s", "dir")))
	assert.Equal(t, 1, ExitStatus(fmt.Errorf("wrapped: %w", &ConfigError{Err: errors.New("x")})))
	assert.Equal(t, 2, ExitStatus(errors.New("boom")))
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		v       FlagValidatorType
		wantErr bool
	}{
		{name: "format both", value: "both", v: FormatValidator},
		{name: "format bad", value: "xml", v: FormatValidator, wantErr: true},
		{name: "store postgres", value: "postgres", v: StoreValidator},
		{name: "store bad", value: "mongo", v: StoreValidator, wantErr: true},
		{name: "tolerance default", value: 0.01, v: ToleranceValidator},
		{name: "tolerance zero", value: 0.0, v: ToleranceValidator, wantErr: true},
		{name: "tolerance one", value: 1.0, v: ToleranceValidator, wantErr: true},
		{name: "tolerance wrong type", value: "0.5", v: ToleranceValidator, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.v)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"content", "metadata"}, splitList(" content, ,metadata "))
	assert.Nil(t, splitList(""))
}

func TestCompare(t *testing.T) {
	dir := fixtureDir(t)
	out := filepath.Join(t.TempDir(), "reports")

	got, err := run(t, "compare", "--extracted-dir", dir, "--output-dir", out, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, got, "Relatório gerado com sucesso:")

	files, err := filepath.Glob(filepath.Join(out, "comparison_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var report map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Len(t, report["1"], 2, "both older snapshots differ in price")
	assert.NotContains(t, report, "2", "unchanged entities are left out")
	assert.NotContains(t, report, "3", "blocked snapshots are not compared")
}

func TestCompare_RoomAndSummary(t *testing.T) {
	dir := fixtureDir(t)
	out := t.TempDir()

	got, err := run(t, "compare", "--extracted-dir", dir, "--output-dir", out,
		"--room-id", "1", "--report-format", "txt", "--color=false")
	require.NoError(t, err)
	assert.Contains(t, got, "Detectadas mudanças em 1 entidades, com um total de 2 comparações.")

	files, err := filepath.Glob(filepath.Join(out, "comparison_1_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Preço: 100 → 120 (aumentou 20.0%)")
}

func TestCompare_Filter(t *testing.T) {
	dir := fixtureDir(t)
	out := t.TempDir()

	got, err := run(t, "compare", "--extracted-dir", dir, "--output-dir", out, "--filter", "field=title", "--color=false")
	require.NoError(t, err)
	assert.Contains(t, got, "Detectadas mudanças em 0 entidades, com um total de 0 comparações.")

	got, err = run(t, "diff", "--room-id", "1", "--extracted-dir", dir, "--raw=false", "--filter", "field!=price")
	require.NoError(t, err)
	assert.Contains(t, got, "Nenhuma mudança detectada.")
}

func TestCompare_Fields(t *testing.T) {
	dir := fixtureDir(t)

	got, err := run(t, "compare", "--extracted-dir", dir, "--output-dir", t.TempDir(), "--fields", "!price", "--color=false")
	require.NoError(t, err)
	assert.Contains(t, got, "Detectadas mudanças em 0 entidades")

	_, err = run(t, "compare", "--extracted-dir", dir, "--output-dir", t.TempDir(), "--fields", "!*")
	require.Error(t, err)
	assert.Equal(t, 1, ExitStatus(err))
}

func TestCompare_ConfigErrors(t *testing.T) {
	dir := fixtureDir(t)

	t.Run("missing extracted dir", func(t *testing.T) {
		_, err := run(t, "compare", "--extracted-dir", filepath.Join(dir, "nope"), "--output-dir", t.TempDir())
		require.Error(t, err)
		assert.Equal(t, 1, ExitStatus(err))
	})

	t.Run("output dir is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))

		_, err := run(t, "compare", "--extracted-dir", dir, "--output-dir", file)
		require.Error(t, err)
		assert.Equal(t, 1, ExitStatus(err))
	})
}

func TestEntities(t *testing.T) {
	got, err := run(t, "entities", "--extracted-dir", fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", got)

	got, err = run(t, "entities", "--extracted-dir", fixtureDir(t), "--prefix", "booking")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiff(t *testing.T) {
	dir := fixtureDir(t)

	t.Run("latest two", func(t *testing.T) {
		got, err := run(t, "diff", "--room-id", "1", "--extracted-dir", dir, "--raw=false")
		require.NoError(t, err)
		assert.Contains(t, got, "Comparando airbnb_1_2025-01-02T00-00-00.json → airbnb_1_2025-01-03T00-00-00.json")
		assert.Contains(t, got, "  - Preço: 100 → 120 (aumentou 20.0%)")
	})

	t.Run("single spec against latest", func(t *testing.T) {
		got, err := run(t, "diff", "--room-id", "1", "--extracted-dir", dir, "--raw=false", "2025-01-01")
		require.NoError(t, err)
		assert.Contains(t, got, "Comparando airbnb_1_2025-01-01T00-00-00.json → airbnb_1_2025-01-03T00-00-00.json")
	})

	t.Run("no changes", func(t *testing.T) {
		got, err := run(t, "diff", "--room-id", "1", "--extracted-dir", dir, "--raw=false", "latest~2", "latest~1")
		require.NoError(t, err)
		assert.Contains(t, got, "Nenhuma mudança detectada.")
	})

	t.Run("raw diff", func(t *testing.T) {
		got, err := run(t, "diff", "--room-id", "1", "--extracted-dir", dir)
		require.NoError(t, err)
		assert.Contains(t, got, "price")
		assert.NotContains(t, got, "conteúdo", "content is ignored by default")
	})

	t.Run("too many specs", func(t *testing.T) {
		_, err := run(t, "diff", "--room-id", "1", "--extracted-dir", dir, "a", "b", "c")
		require.Error(t, err)
		assert.Equal(t, 1, ExitStatus(err))
	})

	t.Run("too few snapshots", func(t *testing.T) {
		_, err := run(t, "diff", "--room-id", "3", "--extracted-dir", dir)
		require.Error(t, err)
		assert.Equal(t, 2, ExitStatus(err))
	})
}

func TestExtract(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	html := `<html><head><title>Casa na praia - Airbnb</title></head>
<body><main><h1>Casa na praia</h1><p>Uma casa com vista para o mar e muito espaço para a família.</p></main></body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(in, "airbnb_7_2025-02-01T10-00-00.html"), []byte(html), 0o600))

	got, err := run(t, "extract", "--input-dir", in, "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, got, "Processados: 1")

	assert.FileExists(t, filepath.Join(out, "airbnb_7_2025-02-01T10-00-00.json"))
	assert.FileExists(t, filepath.Join(out, "airbnb_7_2025-02-01T10-00-00.txt"))

	t.Run("input and input-dir are exclusive", func(t *testing.T) {
		_, err := run(t, "extract", "--input-dir", in, "--input", "x.html", "--output-dir", out)
		require.Error(t, err)
		assert.Equal(t, 1, ExitStatus(err))
	})

	t.Run("missing input file", func(t *testing.T) {
		_, err := run(t, "extract", "--input", filepath.Join(in, "nope.html"), "--output-dir", out)
		require.Error(t, err)
		assert.Equal(t, 1, ExitStatus(err))
	})
}

func TestCompletion(t *testing.T) {
	got, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, got, "complete -F _scrapediff scrapediff")
	assert.Contains(t, got, "extract compare entities diff completion")
	assert.Contains(t, got, "--room-id")

	got, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "#compdef scrapediff"))

	_, err = run(t, "completion", "fish")
	assert.Equal(t, 1, ExitStatus(err))
}
