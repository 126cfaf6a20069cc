// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/apex/log"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// ComparisonResult holds the changes between one older snapshot and the
// latest snapshot of an entity.
type ComparisonResult struct {
	EntityID     string         `json:"room_id" yaml:"room_id"`
	OldTimestamp string         `json:"old_timestamp" yaml:"old_timestamp"`
	NewTimestamp string         `json:"new_timestamp" yaml:"new_timestamp"`
	Changes      []ChangeRecord `json:"changes" yaml:"changes"`
	OldSource    string         `json:"old_file" yaml:"old_file"`
	NewSource    string         `json:"new_file" yaml:"new_file"`
}

// CompareEntity compares every snapshot but the last against the last. snaps
// must be ordered oldest first. Results are ordered newest old-snapshot first
// and pairs without changes are left out.
func (d *Detector) CompareEntity(snaps []snapshot.Snapshot) []ComparisonResult {
	if len(snaps) < 2 {
		if len(snaps) > 0 {
			log.Infof("entity %s: %d snapshot(s), at least 2 needed", snaps[0].EntityID(), len(snaps))
		}
		return nil
	}

	latest := snaps[len(snaps)-1]
	latestFields := latest.Fields()

	var results []ComparisonResult
	for i := len(snaps) - 2; i >= 0; i-- {
		old := snaps[i]
		changes := d.Detect(old.Fields(), latestFields)
		if len(changes) == 0 {
			continue
		}
		results = append(results, ComparisonResult{
			EntityID:     latest.EntityID(),
			OldTimestamp: old.Stamp(),
			NewTimestamp: latest.Stamp(),
			Changes:      changes,
			OldSource:    old.Source(),
			NewSource:    latest.Source(),
		})
	}

	log.Debugf("entity %s: %d snapshots, %d results", latest.EntityID(), len(snaps), len(results))
	return results
}

// Pair compares exactly two snapshots, for the diff command. An empty result
// still carries both sides.
func (d *Detector) Pair(old, new snapshot.Snapshot) ComparisonResult {
	return ComparisonResult{
		EntityID:     new.EntityID(),
		OldTimestamp: old.Stamp(),
		NewTimestamp: new.Stamp(),
		Changes:      d.Detect(old.Fields(), new.Fields()),
		OldSource:    old.Source(),
		NewSource:    new.Source(),
	}
}
