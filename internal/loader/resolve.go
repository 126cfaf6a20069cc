// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// Resolve takes the snapshots of one entity, oldest first, plus zero or more
// specs and returns the matching snapshots in spec order. A spec can be -
//
//	latest~N  - the N-th snapshot back from the latest.
//	-N or 0   - same as latest~N.
//	timestamp - the first snapshot, newest first, whose stamp starts with it.
//	name      - the snapshot read from that source name.
//
// Without specs the two most recent snapshots are returned, older first.
func Resolve(snaps []snapshot.Snapshot, specs ...string) ([]snapshot.Snapshot, error) {
	// Work newest first so relative indexes read naturally.
	newest := make([]snapshot.Snapshot, len(snaps))
	for i, s := range snaps {
		newest[len(snaps)-1-i] = s
	}

	if len(specs) == 0 {
		specs = []string{"latest~1", "latest~0"}
	}

	result := make([]snapshot.Snapshot, 0, len(specs))
	for _, spec := range specs {
		s, err := resolveSpec(spec, newest)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func resolveSpec(spec string, newest []snapshot.Snapshot) (snapshot.Snapshot, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(spec), "latest~"):
		index, err := strconv.Atoi(spec[len("latest~"):])
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("invalid snapshot index: %s", spec)
		}
		return resolveIndex(index, newest)

	case isRelative(spec):
		i, _ := strconv.Atoi(spec)
		return resolveIndex(-i, newest)

	default:
		return resolveName(spec, newest)
	}
}

func resolveIndex(index int, newest []snapshot.Snapshot) (snapshot.Snapshot, error) {
	if index < 0 || index > len(newest)-1 {
		return snapshot.Snapshot{}, fmt.Errorf("index %d out of range for %d snapshots", index, len(newest))
	}
	return newest[index], nil
}

// resolveName matches a source name first, then a stamp prefix in either the
// name layout or the record layout.
func resolveName(spec string, newest []snapshot.Snapshot) (snapshot.Snapshot, error) {
	for _, s := range newest {
		if s.Source() == spec || snapshot.TrimExt(s.Source()) == spec {
			return s, nil
		}
	}

	stamp := strings.ReplaceAll(spec, ":", "-")
	for _, s := range newest {
		if stamp != "" && strings.HasPrefix(s.Stamp(), stamp) {
			return s, nil
		}
	}

	return snapshot.Snapshot{}, fmt.Errorf("failed to find snapshot matching %q", spec)
}

// isRelative reports whether s is 0 or a negative integer.
func isRelative(s string) bool {
	i, err := strconv.Atoi(s)
	return err == nil && i <= 0
}
