// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot holds the shared data model: typed field values, immutable
// point-in-time snapshots of a listing, the structured record file written by
// the extractor, and the source-name grammar
// <prefix>_<entity_id>_<YYYY-MM-DDTHH-MM-SS>.<ext> that both the extractor and
// the loader depend on.
package snapshot
