// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v2"

	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// Encodings lists the supported report encodings. The first is the default
// and the fallback for anything unknown.
var Encodings = []string{"json", "txt", "html", "yaml", "xlsx"}

// Report is the set of comparison results of one run, keyed by entity id.
// Entities without results are not present.
type Report struct {
	Results     map[string][]differ.ComparisonResult
	GeneratedAt time.Time
	// Entity is set when the run was limited to a single entity.
	Entity string
}

// NewReport returns an empty report.
func NewReport(entity string, at time.Time) *Report {
	return &Report{
		Results:     map[string][]differ.ComparisonResult{},
		GeneratedAt: at,
		Entity:      entity,
	}
}

// Add records the results of one entity. Nothing is recorded for an empty
// slice.
func (r *Report) Add(entity string, results []differ.ComparisonResult) {
	if len(results) == 0 {
		return
	}
	r.Results[entity] = results
}

// Entities returns the entity ids present in the report, sorted.
func (r *Report) Entities() []string {
	ids := make([]string, 0, len(r.Results))
	for id := range r.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of change records per entity.
func Count(r *Report) map[string]int {
	out := make(map[string]int, len(r.Results))
	for id, results := range r.Results {
		n := 0
		for _, res := range results {
			n += len(res.Changes)
		}
		out[id] = n
	}
	return out
}

// Comparisons returns the total number of comparison results.
func Comparisons(r *Report) int {
	n := 0
	for _, results := range r.Results {
		n += len(results)
	}
	return n
}

// Resolve returns encoding when supported, otherwise json with a warning.
func Resolve(encoding string) string {
	if slices.Contains(Encodings, encoding) {
		return encoding
	}
	log.Warnf("encoding %q is not supported, using json", encoding)
	return Encodings[0]
}

// FileName returns comparison[_<entity>]_<stamp>.<ext>.
func FileName(entity string, at time.Time, ext string) string {
	name := "comparison"
	if entity != "" {
		name += "_" + entity
	}
	return fmt.Sprintf("%s_%s.%s", name, at.Format(snapshot.NameLayout), ext)
}

// Write renders r into dir and returns the path written. An unsupported
// encoding falls back to json and the file name follows suit.
func Write(dir string, r *Report, encoding string) (string, error) {
	encoding = Resolve(encoding)
	path := filepath.Join(dir, FileName(r.Entity, r.GeneratedAt, encoding))

	var buf bytes.Buffer
	if _, err := Render(&buf, r, encoding); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	log.Debugf("report written: %s (%d bytes)", path, buf.Len())

	return path, nil
}

// Render encodes r to w and returns the encoding actually used.
func Render(w io.Writer, r *Report, encoding string) (string, error) {
	encoding = Resolve(encoding)

	var err error
	switch encoding {
	case "txt":
		err = renderText(w, r)
	case "html":
		err = renderHTML(w, r)
	case "yaml":
		err = renderYAML(w, r)
	case "xlsx":
		err = renderXLSX(w, r)
	default:
		err = renderJSON(w, r)
	}
	if err != nil {
		return encoding, fmt.Errorf("failed to render %s report: %w", encoding, err)
	}

	return encoding, nil
}

// renderJSON keeps non-ASCII text as is so that the report round trips.
func renderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Results)
}

func renderYAML(w io.Writer, r *Report) error {
	out, err := yaml.Marshal(r.Results)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
