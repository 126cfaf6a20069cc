// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows comparison results down to the changes a user asked
// for.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with SCRAPEDIFF_FILTER_DELIM). Each change is matched as its
// JSON form, so the keys are the change fields: field, old_value, new_value and
// formatted. A key may index into a list value, e.g. new_value[0].
//
// Operators:
//
//   - = : exact match, numeric when the value is a number
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than, numeric when the value is a number
//   - > : greater than, numeric when the value is a number
//   - @ : substring, or membership for list values
//   - / : regular expression match
//
// Any operator can be negated with a leading !, e.g. "field!=title".
//
// Examples:
//
//   - "field=price" : only price changes
//   - "field=price,new_value>500" : price changes that ended above 500
//   - "new_value@wifi" : feature lists that now hold wifi
//   - "formatted/aumentou" : changes whose text says the value went up
//
// A key on its own keeps changes where that key is present and not null.
// Changes missing a filtered key are dropped.
package filters
