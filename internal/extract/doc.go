// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package extract turns raw listing HTML into structured records.
//
// Every field has an ordered chain of strategies. Each strategy is a pure
// function over the parsed document; the first one producing a non-empty
// value that the field's parser accepts wins. Markup churn on the listing
// site is absorbed by adding strategies to a chain rather than by touching
// the callers.
//
// The readable body is extracted separately: semantic landmarks or the
// densest content node are converted to Markdown, and when that yields too
// little text a plain-text fallback is used. Pages that are really an
// anti-automation interstitial are flagged as blocked.
package extract
