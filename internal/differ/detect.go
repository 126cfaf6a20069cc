// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"bytes"
	"math"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// DefaultTolerance is the relative numeric change below which a difference is
// treated as noise.
const DefaultTolerance = 0.01

// ChangeRecord is one meaningful difference in a monitored field. An absent
// OldValue means the field was added, an absent NewValue that it was removed.
type ChangeRecord struct {
	Field     string              `json:"field" yaml:"field"`
	OldValue  snapshot.FieldValue `json:"old_value" yaml:"old_value"`
	NewValue  snapshot.FieldValue `json:"new_value" yaml:"new_value"`
	Formatted string              `json:"formatted" yaml:"formatted"`
}

// Detector compares field maps.
type Detector struct {
	Fields    []string
	Tolerance float64
}

type Option func(d *Detector)

// NewDetector returns a detector over the monitored fields with the default
// tolerance.
func NewDetector(options ...Option) *Detector {
	d := &Detector{
		Fields:    slices.Clone(snapshot.Monitored),
		Tolerance: DefaultTolerance,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithTolerance overrides the relative numeric tolerance. Non-positive values
// keep the default.
func WithTolerance(t float64) Option {
	return func(d *Detector) {
		if t > 0 {
			d.Tolerance = t
		}
	}
}

// WithFields replaces the fields examined, in report order. An empty list
// keeps the monitored fields.
func WithFields(fields ...string) Option {
	return func(d *Detector) {
		if len(fields) > 0 {
			d.Fields = slices.Clone(fields)
		}
	}
}

// Detect compares old and new with the default detector.
func Detect(old, new map[string]snapshot.FieldValue) []ChangeRecord {
	return NewDetector().Detect(old, new)
}

// Detect returns the changes between old and new in monitored field order.
func (d *Detector) Detect(old, new map[string]snapshot.FieldValue) []ChangeRecord {
	var changes []ChangeRecord
	for _, field := range d.Fields {
		o, n := old[field], new[field]
		switch {
		case o.IsAbsent() && n.IsAbsent():
			continue
		case o.IsAbsent():
			changes = append(changes, ChangeRecord{
				Field:     field,
				NewValue:  n,
				Formatted: Label(field) + ": Adicionado (" + n.String() + ")",
			})
		case n.IsAbsent():
			changes = append(changes, ChangeRecord{
				Field:     field,
				OldValue:  o,
				Formatted: Label(field) + ": Removido (" + o.String() + ")",
			})
		case d.Changed(o, n):
			changes = append(changes, ChangeRecord{
				Field:     field,
				OldValue:  o,
				NewValue:  n,
				Formatted: FormatChange(field, o, n),
			})
		}
	}
	return changes
}

// Changed reports whether two present values differ meaningfully.
func (d *Detector) Changed(o, n snapshot.FieldValue) bool {
	switch {
	case o.Kind() == snapshot.String && n.Kind() == snapshot.String:
		return normalize(o.Str()) != normalize(n.Str())
	case o.Kind() == snapshot.Number && n.Kind() == snapshot.Number:
		if o.Num() == 0 {
			return n.Num() != 0
		}
		return math.Abs((n.Num()-o.Num())/o.Num()) >= d.Tolerance
	case o.Kind() == snapshot.List && n.Kind() == snapshot.List:
		oi, ni := o.Items(), n.Items()
		if len(oi) != len(ni) {
			return true
		}
		return !slices.Equal(normalizedSorted(oi), normalizedSorted(ni))
	case o.Kind() != n.Kind():
		return true
	case o.Kind() == snapshot.Raw:
		return !bytes.Equal(o.RawJSON(), n.RawJSON())
	}
	return false
}

// normalize trims and case-folds s.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func normalizedSorted(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = normalize(s)
	}
	sort.Strings(out)
	return out
}
