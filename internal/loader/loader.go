// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/apex/log"

	"github.com/scrapediff/scrapediff/internal/snapshot"
	"github.com/scrapediff/scrapediff/internal/source"
)

// EntityIDs returns the distinct entity ids found in names, sorted. Names
// that do not follow <prefix>_<id>_<rest> are ignored.
func EntityIDs(names []string, prefix string) []string {
	seen := map[string]bool{}
	var ids []string
	for _, name := range names {
		id, ok := snapshot.EntityFromName(name, prefix)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ordered returns the names belonging to entity, oldest first. Names whose
// timestamp does not parse sort first; ties keep name order.
func Ordered(names []string, entity, prefix string) []string {
	type entry struct {
		name string
		n    snapshot.Name
	}

	var entries []entry
	for _, name := range names {
		n, ok := snapshot.ParseName(name)
		if !ok || n.EntityID != entity || (prefix != "" && n.Prefix != prefix) {
			continue
		}
		entries = append(entries, entry{name: name, n: n})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].n.Time.Before(entries[j].n.Time)
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Loader reads snapshots out of a Source.
type Loader struct {
	src    source.Source
	prefix string
}

// New returns a Loader over src. An empty prefix matches any source name
// prefix.
func New(src source.Source, prefix string) *Loader {
	return &Loader{src: src, prefix: prefix}
}

// Source returns the underlying source.
func (l *Loader) Source() source.Source { return l.src }

// Entities lists the distinct entity ids available in the source.
func (l *Loader) Entities(ctx context.Context) ([]string, error) {
	names, err := l.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.src, err)
	}
	return EntityIDs(names, l.prefix), nil
}

// Load returns the comparable snapshots of entity, oldest first. A source that
// cannot be read or decoded yields a snapshot without fields. Blocked
// snapshots are left out.
func (l *Loader) Load(ctx context.Context, entity string) ([]snapshot.Snapshot, error) {
	names, err := l.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.src, err)
	}
	return l.LoadNames(ctx, Ordered(names, entity, l.prefix))
}

// LoadNames reads the given, already ordered, names.
func (l *Loader) LoadNames(ctx context.Context, names []string) ([]snapshot.Snapshot, error) {
	snaps := make([]snapshot.Snapshot, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, _ := snapshot.ParseName(name)
		data, _, err := l.src.Read(ctx, name)
		if err != nil {
			log.WithError(err).Warnf("failed to read %s", name)
			snaps = append(snaps, snapshot.New(n.EntityID, n.Time, name, n.Stamp, nil, false))
			continue
		}

		rec, err := snapshot.DecodeRecord(data)
		if err != nil {
			log.WithError(err).Warnf("failed to decode %s", name)
			snaps = append(snaps, snapshot.New(n.EntityID, n.Time, name, n.Stamp, nil, false))
			continue
		}

		if rec.Metadata.Blocked {
			log.Infof("skipping blocked snapshot %s", name)
			continue
		}

		snaps = append(snaps, snapshot.FromRecord(n, name, rec))
	}

	log.Debugf("loaded %d of %d snapshots", len(snaps), len(names))
	return snaps, nil
}
