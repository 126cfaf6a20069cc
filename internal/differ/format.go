// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// FormatChange describes a change between two present values.
func FormatChange(field string, o, n snapshot.FieldValue) string {
	label := Label(field)

	if o.Kind() == snapshot.List && n.Kind() == snapshot.List {
		added, removed := ListDelta(o.Items(), n.Items())
		var parts []string
		if len(added) > 0 {
			parts = append(parts, "Adicionado: "+strings.Join(added, ", "))
		}
		if len(removed) > 0 {
			parts = append(parts, "Removido: "+strings.Join(removed, ", "))
		}
		if len(parts) > 0 {
			return label + ": " + strings.Join(parts, " | ")
		}
	}

	if field == "price" && o.Kind() == snapshot.Number && n.Kind() == snapshot.Number && o.Num() > 0 {
		pct := PercentChange(o.Num(), n.Num())
		direction := "diminuiu"
		if pct > 0 {
			direction = "aumentou"
		}
		return fmt.Sprintf("%s: %s → %s (%s %.1f%%)", label, o, n, direction, math.Abs(pct))
	}

	return fmt.Sprintf("%s: %s → %s", label, o, n)
}

// PercentChange returns ((n-o)/o)*100.
func PercentChange(o, n float64) float64 {
	return (n - o) / o * 100
}

// ListDelta returns the normalised elements only in n (added) and only in o
// (removed), each sorted.
func ListDelta(o, n []string) (added, removed []string) {
	oldSet := set(o)
	newSet := set(n)
	for s := range newSet {
		if !oldSet[s] {
			added = append(added, s)
		}
	}
	for s := range oldSet {
		if !newSet[s] {
			removed = append(removed, s)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func set(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[normalize(s)] = true
	}
	return out
}
