// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	// NameLayout is the timestamp layout embedded in source names.
	NameLayout = "2006-01-02T15-04-05"
	// RecordLayout is the timestamp layout written into record metadata.
	RecordLayout = "2006-01-02T15:04:05"
	// DefaultPrefix is the source-name prefix used when none is configured.
	DefaultPrefix = "airbnb"
)

var stampRE = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}`)

// Name is a parsed source name.
type Name struct {
	Base     string // file name without directories
	Prefix   string
	EntityID string
	Stamp    string // everything after the entity id, extension removed
	Ext      string // extension without the dot
	Time     time.Time
	Valid    bool // Stamp parsed as NameLayout
}

// ParseName splits a source name following
// <prefix>_<entity_id>_<stamp>.<ext>. ok is false when the name does not have
// at least three underscore separated parts. A stamp that does not parse
// leaves Time at the Unix epoch and Valid false.
func ParseName(name string) (n Name, ok bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	parts := strings.Split(base, "_")
	if len(parts) < 3 || parts[1] == "" {
		return Name{Base: base, Time: time.Unix(0, 0).UTC()}, false
	}

	rest := strings.Join(parts[2:], "_")
	stamp, ext, _ := strings.Cut(rest, ".")
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}

	n = Name{
		Base:     base,
		Prefix:   parts[0],
		EntityID: parts[1],
		Stamp:    stamp,
		Ext:      ext,
		Time:     time.Unix(0, 0).UTC(),
	}

	if t, err := time.Parse(NameLayout, stamp); err == nil {
		n.Time = t
		n.Valid = true
	}

	return n, true
}

// FindStamp locates the first name-layout timestamp anywhere in s and returns
// it normalised to RecordLayout.
func FindStamp(s string) (string, bool) {
	m := stampRE.FindString(s)
	if m == "" {
		return "", false
	}
	t, err := time.Parse(NameLayout, m)
	if err != nil {
		return "", false
	}
	return t.Format(RecordLayout), true
}

// EntityFromName returns the entity id of a source name carrying the given
// prefix. An empty prefix matches any.
func EntityFromName(name, prefix string) (string, bool) {
	n, ok := ParseName(name)
	if !ok {
		return "", false
	}
	if prefix != "" && n.Prefix != prefix {
		return "", false
	}
	return n.EntityID, true
}

// TrimExt returns the name with its final extension removed.
func TrimExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
