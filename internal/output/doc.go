// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders comparison reports. A Report can be encoded as json,
// txt, html, yaml or xlsx, and summarised as a terminal table after a run.
package output
