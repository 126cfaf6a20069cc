// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// listingOrder is the key order used when a record's listing is encoded.
var listingOrder = []string{"title", "price", "price_text", "rating", "review_count", "location", "features"}

// featureOrder is the element order of feature lists built from counts.
var featureOrder = []string{"rooms", "bathrooms", "beds"}

// Metadata describes where a record came from.
type Metadata struct {
	SourceFile     string `json:"source_file"`
	ExtractionDate string `json:"extraction_date"`
	Timestamp      string `json:"timestamp"`
	EntityID       string `json:"entity_id,omitempty"`
	Blocked        bool   `json:"blocked"`
	LowQuality     bool   `json:"low_quality"`
}

// Listing holds the structured fields of a record.
type Listing map[string]FieldValue

// MarshalJSON writes the well-known keys first, null when absent, followed by
// any other present keys in name order.
func (l Listing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	known := make(map[string]bool, len(listingOrder))
	keys := make([]string, 0, len(l)+len(listingOrder))
	for _, k := range listingOrder {
		known[k] = true
		keys = append(keys, k)
	}
	var extra []string
	for k, v := range l {
		if !known[k] && !v.IsAbsent() {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := l[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", k, err)
		}
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Record is the structured record file produced by the extractor.
type Record struct {
	Metadata Metadata `json:"metadata"`
	Listing  Listing  `json:"listing"`
	Content  string   `json:"content"`
}

// Encode renders the record as indented JSON without escaping HTML or
// non-ASCII characters.
func (r Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrMalformed is returned for record bytes that are not a JSON object.
var ErrMalformed = errors.New("malformed record")

// DecodeRecord parses a record file. Fields are read from the "listing" block
// when present, otherwise from top-level keys as older files stored them. A
// features object of counts is converted to the list form.
func DecodeRecord(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return Record{}, ErrMalformed
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Record{}, ErrMalformed
	}

	md := doc.Get("metadata")
	rec := Record{
		Metadata: Metadata{
			SourceFile:     md.Get("source_file").String(),
			ExtractionDate: md.Get("extraction_date").String(),
			Timestamp:      md.Get("timestamp").String(),
			EntityID:       md.Get("entity_id").String(),
			Blocked:        md.Get("blocked").Bool(),
			LowQuality:     md.Get("low_quality").Bool(),
		},
		Listing: Listing{},
		Content: doc.Get("content").String(),
	}

	fields := doc.Get("listing")
	legacy := !fields.IsObject()
	if legacy {
		fields = doc
	}

	fields.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if legacy && (k == "metadata" || k == "content") {
			return true
		}
		v := FromJSON(value)
		if k == "features" && value.IsObject() {
			v = featuresFromObject(value)
		}
		if !v.IsAbsent() {
			rec.Listing[k] = v
		}
		return true
	})

	return rec, nil
}

// FeatureList renders feature counts as "<n> <kind>" elements, known kinds
// first.
func FeatureList(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	seen := map[string]bool{}
	for _, k := range featureOrder {
		if n, ok := counts[k]; ok {
			out = append(out, strconv.Itoa(n)+" "+k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, strconv.Itoa(counts[k])+" "+k)
	}
	return out
}

func featuresFromObject(obj gjson.Result) FieldValue {
	counts := map[string]int{}
	ok := true
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			ok = false
			return false
		}
		counts[key.String()] = int(value.Int())
		return true
	})
	if !ok {
		return RawValue([]byte(obj.Raw))
	}
	if len(counts) == 0 {
		return AbsentValue()
	}
	return ListValue(FeatureList(counts))
}
