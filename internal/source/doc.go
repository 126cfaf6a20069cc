// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source lists and reads snapshot sources. A source is either a local
// directory or an S3 bucket prefix; both expose base names that follow the
// snapshot naming grammar.
package source
