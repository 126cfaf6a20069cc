// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+)?\])?$`)

// drill walks a dot path where any segment may carry a list index, e.g.
// "new_value[1]". A single element list without an index yields its element;
// longer lists are returned whole.
func drill(doc gjson.Result, path string) gjson.Result {
	current := doc
	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		val := current.Get(matches[1])
		if val.IsArray() {
			arr := val.Array()
			switch {
			case matches[3] != "":
				i, err := strconv.Atoi(matches[3])
				if err != nil || i >= len(arr) {
					return gjson.Result{}
				}
				val = arr[i]
			case len(arr) == 1:
				val = arr[0]
			}
		}

		current = val
	}
	return current
}
