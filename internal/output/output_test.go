// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

var generatedAt = time.Date(2025, 4, 2, 10, 20, 30, 0, time.UTC)

// makeReport returns a report with two entities: 111 with two comparisons
// carrying three changes, 222 with one comparison carrying one change.
func makeReport() *Report {
	r := NewReport("", generatedAt)
	r.Add("111", []differ.ComparisonResult{
		{
			EntityID:     "111",
			OldTimestamp: "2025-03-01T00-00-00",
			NewTimestamp: "2025-04-01T00-00-00",
			OldSource:    "airbnb_111_2025-03-01T00-00-00.json",
			NewSource:    "airbnb_111_2025-04-01T00-00-00.json",
			Changes: []differ.ChangeRecord{{
				Field:     "price",
				OldValue:  snapshot.NumberValue(100),
				NewValue:  snapshot.NumberValue(120),
				Formatted: "Preço: 100 → 120 (aumentou 20.0%)",
			}},
		},
		{
			EntityID:     "111",
			OldTimestamp: "2025-01-01T00-00-00",
			NewTimestamp: "2025-04-01T00-00-00",
			OldSource:    "airbnb_111_2025-01-01T00-00-00.json",
			NewSource:    "airbnb_111_2025-04-01T00-00-00.json",
			Changes: []differ.ChangeRecord{
				{
					Field:     "title",
					OldValue:  snapshot.StringValue("Casa <velha>"),
					NewValue:  snapshot.StringValue("Casa nova"),
					Formatted: "Título: Casa <velha> → Casa nova",
				},
				{
					Field:     "price",
					OldValue:  snapshot.NumberValue(150),
					NewValue:  snapshot.NumberValue(120),
					Formatted: "Preço: 150 → 120 (diminuiu 20.0%)",
				},
			},
		},
	})
	r.Add("222", []differ.ComparisonResult{{
		EntityID:     "222",
		OldTimestamp: "bad-name",
		NewTimestamp: "2025-04-01T00-00-00",
		OldSource:    "airbnb_222_bad-name.json",
		NewSource:    "airbnb_222_2025-04-01T00-00-00.json",
		Changes: []differ.ChangeRecord{{
			Field:     "features",
			OldValue:  snapshot.AbsentValue(),
			NewValue:  snapshot.ListValue([]string{"2 rooms"}),
			Formatted: "Características: Adicionado ([2 rooms])",
		}},
	}})
	r.Add("333", nil)
	return r
}

func TestReport(t *testing.T) {
	r := makeReport()
	assert.Equal(t, []string{"111", "222"}, r.Entities(), "entities without results are omitted")
	assert.Equal(t, map[string]int{"111": 3, "222": 1}, Count(r))
	assert.Equal(t, 3, Comparisons(r))
}

func TestRender_SameCountsAcrossEncodings(t *testing.T) {
	r := makeReport()
	want := 4

	counters := map[string]func(t *testing.T, out []byte) int{
		"json": func(t *testing.T, out []byte) int {
			var doc map[string][]map[string]interface{}
			require.NoError(t, json.Unmarshal(out, &doc))
			n := 0
			for _, results := range doc {
				for _, res := range results {
					n += len(res["changes"].([]interface{}))
				}
			}
			return n
		},
		"yaml": func(t *testing.T, out []byte) int {
			var doc map[string][]map[string]interface{}
			require.NoError(t, yaml.Unmarshal(out, &doc))
			n := 0
			for _, results := range doc {
				for _, res := range results {
					n += len(res["changes"].([]interface{}))
				}
			}
			return n
		},
		"txt": func(t *testing.T, out []byte) int {
			return strings.Count(string(out), "\n  - ")
		},
		"html": func(t *testing.T, out []byte) int {
			return strings.Count(string(out), `<li class="change-item`)
		},
		"xlsx": func(t *testing.T, out []byte) int {
			f, err := excelize.OpenReader(bytes.NewReader(out))
			require.NoError(t, err)
			defer f.Close()
			rows, err := f.GetRows(xlsxSheet)
			require.NoError(t, err)
			return len(rows) - 1
		},
	}

	for _, enc := range Encodings {
		t.Run(enc, func(t *testing.T) {
			var buf bytes.Buffer
			used, err := Render(&buf, r, enc)
			require.NoError(t, err)
			assert.Equal(t, enc, used)
			assert.Equal(t, want, counters[enc](t, buf.Bytes()))
		})
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	_, err := Render(&buf, makeReport(), "json")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Preço: 100 → 120", "non-ASCII text is kept")
	assert.Contains(t, out, "Casa <velha>")
	assert.Contains(t, out, `"room_id": "111"`)
	assert.Contains(t, out, `"old_value": null`)

	var got map[string][]differ.ComparisonResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got["111"], 2)
	assert.Equal(t, "airbnb_111_2025-01-01T00-00-00.json", got["111"][1].OldSource)
	assert.Equal(t, 150.0, got["111"][1].Changes[1].OldValue.Num())
	assert.True(t, got["222"][0].Changes[0].OldValue.IsAbsent())
	assert.Equal(t, []string{"2 rooms"}, got["222"][0].Changes[0].NewValue.Items())
}

func TestRender_Empty(t *testing.T) {
	r := NewReport("42", generatedAt)

	var buf bytes.Buffer
	_, err := Render(&buf, r, "json")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", buf.String())

	buf.Reset()
	_, err = Render(&buf, r, "txt")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Nenhuma mudança detectada.")

	buf.Reset()
	_, err = Render(&buf, r, "html")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Nenhuma mudança detectada.")
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	_, err := Render(&buf, makeReport(), "txt")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Gerado em: 2025-04-02 10:20:30")
	assert.Contains(t, out, "=== Room ID: 111 ===\nTotal de comparações: 2\n")
	assert.Contains(t, out, "Período: 2025-03-01T00-00-00 → 2025-04-01T00-00-00 (1 mês)\n")
	assert.Contains(t, out, "Período: bad-name → 2025-04-01T00-00-00\n")
	assert.Less(t, strings.Index(out, "Room ID: 111"), strings.Index(out, "Room ID: 222"))
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	_, err := Render(&buf, makeReport(), "html")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<li class="change-item price-increase">Preço: 100 → 120 (aumentou 20.0%)</li>`)
	assert.Contains(t, out, `<li class="change-item price-decrease">`)
	assert.Contains(t, out, `<li class="change-item ">Características`)
	assert.Contains(t, out, "Casa &lt;velha&gt;")
	assert.Contains(t, out, "<h3>Comparação 2</h3>")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "html", Resolve("html"))
	assert.Equal(t, "json", Resolve("xml"))
	assert.Equal(t, "json", Resolve(""))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "comparison_2025-04-02T10-20-30.json", FileName("", generatedAt, "json"))
	assert.Equal(t, "comparison_42_2025-04-02T10-20-30.html", FileName("42", generatedAt, "html"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	r := makeReport()

	path, err := Write(dir, r, "xml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "comparison_2025-04-02T10-20-30.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	r.Entity = "111"
	path, err = Write(dir, r, "txt")
	require.NoError(t, err)
	assert.Equal(t, "comparison_111_2025-04-02T10-20-30.txt", filepath.Base(path))

	_, err = Write(filepath.Join(dir, "missing"), r, "json")
	assert.Error(t, err)
}

func TestSpan(t *testing.T) {
	tests := []struct {
		old, new string
		want     string
	}{
		{"2025-01-01T00-00-00", "2025-01-01T00-00-00", "mesmo instante"},
		{"2025-01-01T00-00-00", "2025-01-01T00-30-00", "30 minutos"},
		{"2025-01-01T00-00-00", "2025-01-02T00-00-00", "1 dia"},
		{"2025-01-01T00-00-00", "2025-04-01T00-00-00", "3 meses"},
		{"2023-01-01T00-00-00", "2025-04-01T00-00-00", "2 anos"},
		{"bad", "2025-04-01T00-00-00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.old+"_"+tt.new, func(t *testing.T) {
			got := Span(differ.ComparisonResult{OldTimestamp: tt.old, NewTimestamp: tt.new})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortRows(t *testing.T) {
	rows := func() []SummaryRow {
		return []SummaryRow{
			{Entity: "900", Comparisons: 1, Changes: 5},
			{Entity: "1000", Comparisons: 3, Changes: 5},
			{Entity: "20", Comparisons: 2, Changes: 1},
		}
	}
	entities := func(rs []SummaryRow) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Entity)
		}
		return out
	}

	tests := []struct {
		spec string
		want []string
	}{
		{spec: "", want: []string{"900", "1000", "20"}},
		{spec: "entity", want: []string{"20", "900", "1000"}},
		{spec: "-entity", want: []string{"1000", "900", "20"}},
		{spec: "comparisons", want: []string{"900", "20", "1000"}},
		{spec: "-changes,comparisons", want: []string{"900", "1000", "20"}},
		{spec: "-changes,-comparisons", want: []string{"1000", "900", "20"}},
		{spec: "bogus", want: []string{"900", "1000", "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			rs := rows()
			SortRows(rs, tt.spec)
			assert.Equal(t, tt.want, entities(rs))
		})
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, makeReport(), SummaryOptions{Sort: "-changes"})

	out := buf.String()
	assert.Contains(t, out, "ENTITY")
	assert.Contains(t, out, "CHANGES")
	assert.Less(t, strings.Index(out, "111"), strings.Index(out, "222"))
	assert.Contains(t, out, "Detectadas mudanças em 2 entidades, com um total de 3 comparações.")

	buf.Reset()
	Summary(&buf, NewReport("", generatedAt), SummaryOptions{})
	assert.Contains(t, buf.String(), "Detectadas mudanças em 0 entidades, com um total de 0 comparações.")
	assert.NotContains(t, buf.String(), "ENTITY")
	assert.False(t, IsTerminal(&buf))
}
