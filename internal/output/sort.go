// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortRows orders rows by spec, e.g. "-changes,entity". Unknown fields are
// ignored and an empty spec keeps the current order.
func SortRows(rows []SummaryRow, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(rows, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			var oneValue, twoValue int
			switch strings.ToLower(field) {
			case "comparisons":
				oneValue, twoValue = rows[one].Comparisons, rows[two].Comparisons
			case "changes":
				oneValue, twoValue = rows[one].Changes, rows[two].Changes
			case "entity":
				// Entity ids are usually numeric, fall back to string order.
				a, b := rows[one].Entity, rows[two].Entity
				if len(a) != len(b) && isDigits(a) && isDigits(b) {
					oneValue, twoValue = len(a), len(b)
					break
				}
				if a != b {
					if ascending {
						return a < b
					}
					return a > b
				}
				continue
			default:
				continue
			}

			if oneValue != twoValue {
				if ascending {
					return oneValue < twoValue
				}
				return oneValue > twoValue
			}
		}
		return false
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
