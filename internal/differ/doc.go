// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ detects meaningful changes between snapshots of an entity.
//
// Comparison is diff-from-latest: every older snapshot is compared against
// the single most recent one, newest first, so each result answers "what is
// different now compared to then". Strings compare trimmed and case-folded,
// numbers within a relative tolerance, and lists as unordered multisets.
//
// RawDiff renders a structural JSON delta of two whole record files for the
// diff command.
package differ
