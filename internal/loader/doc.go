// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package loader discovers the structured records of an entity in a source,
// orders them by capture time and turns them into snapshots. It also resolves
// the snapshot specs accepted by the diff command.
package loader
