// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"sort"
	"time"
)

// Monitored lists the fields the change detector examines, in report order.
var Monitored = []string{"title", "price", "rating", "review_count", "location", "features"}

// Snapshot is one captured state of an entity. It is immutable: the field map
// is copied on the way in and every accessor returns a value.
type Snapshot struct {
	entityID   string
	capturedAt time.Time
	source     string
	stamp      string
	fields     map[string]FieldValue
	blocked    bool
}

// New builds a Snapshot. stamp is the textual timestamp carried by the
// source name and is used as the label in reports.
func New(entityID string, capturedAt time.Time, source, stamp string, fields map[string]FieldValue, blocked bool) Snapshot {
	cp := make(map[string]FieldValue, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Snapshot{
		entityID:   entityID,
		capturedAt: capturedAt,
		source:     source,
		stamp:      stamp,
		fields:     cp,
		blocked:    blocked,
	}
}

// FromRecord builds a Snapshot from a decoded record and the name it was read
// from.
func FromRecord(name Name, source string, rec Record) Snapshot {
	return New(name.EntityID, name.Time, source, name.Stamp, rec.Listing, rec.Metadata.Blocked)
}

func (s Snapshot) EntityID() string      { return s.entityID }
func (s Snapshot) CapturedAt() time.Time { return s.capturedAt }
func (s Snapshot) Source() string        { return s.source }
func (s Snapshot) Stamp() string         { return s.stamp }
func (s Snapshot) Blocked() bool         { return s.blocked }

// Field returns the named value, Absent when missing.
func (s Snapshot) Field(name string) FieldValue {
	return s.fields[name]
}

// Fields returns a copy of every field.
func (s Snapshot) Fields() map[string]FieldValue {
	cp := make(map[string]FieldValue, len(s.fields))
	for k, v := range s.fields {
		cp[k] = v
	}
	return cp
}

// FieldNames returns the present field names, sorted.
func (s Snapshot) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for k, v := range s.fields {
		if !v.IsAbsent() {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
