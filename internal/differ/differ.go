// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// RawDiffOptions tunes RawDiff.
type RawDiffOptions struct {
	// Ignore lists top-level keys dropped from both documents, e.g. content.
	Ignore []string
	Color  bool
}

// RawDiff writes the structural JSON delta between two record documents. It
// reports whether they differ.
func RawDiff(a, b []byte, w io.Writer, opts RawDiffOptions) (bool, error) {
	if len(a) == 0 || len(b) == 0 {
		return false, fmt.Errorf("nothing to compare")
	}

	left, err := decodeObject(a, opts.Ignore)
	if err != nil {
		return false, err
	}
	right, err := decodeObject(b, opts.Ignore)
	if err != nil {
		return false, err
	}

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, "The records are identical.")
		return false, nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, fmt.Errorf("failed to format delta: %w", err)
	}
	log.Debugf("raw diff: %d bytes", len(out))

	fmt.Fprint(w, out)
	return true, nil
}

func decodeObject(data []byte, ignore []string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	for _, k := range ignore {
		delete(doc, k)
	}
	return doc, nil
}
