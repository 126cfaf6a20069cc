// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for scrapediff's user
// configuration. The configuration is a YAML document located by
// SCRAPEDIFF_CFG_FILE or in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/scrapediff.yaml or $HOME/.config/scrapediff.yaml
//   - Windows: %APPDATA%/scrapediff.yaml
//
// Recognised keys include prefix, extract.min_body_length, compare.tolerance,
// cache.clean, s3.region, s3.profile, s3.endpoint and postgres.dsn. Every key
// is optional.
package config
