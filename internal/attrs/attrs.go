// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"strings"

	"github.com/scrapediff/scrapediff/internal/log"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// Attr is one listing field the change detector looks at.
type Attr struct {
	// The listing key, e.g. "price" or "price_text".
	Key string `yaml:"key" json:"Key"`
	// Excluded attrs stay in the list so a later spec can bring them back in
	// their original position.
	Include bool `yaml:"include" json:"Include"`
}

// AttrList is an ordered collection of Attr.
type AttrList []Attr

// Defaults returns the monitored fields, all included, in report order.
func Defaults() AttrList {
	list := make(AttrList, 0, len(snapshot.Monitored))
	for _, k := range snapshot.Monitored {
		list = append(list, Attr{Key: k, Include: true})
	}
	return list
}

// Set parses a --fields value and applies it to the list. Each comma
// separated spec is a key, optionally prefixed with ! to exclude it. "*"
// includes every attr already in the list and "!*" excludes them all, so
// "!*,price" narrows the run to price alone. Keys that are not in the list are
// appended.
func (a *AttrList) Set(value string) error {
	if value == "" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		attr := Attr{Include: true}

		attr.Key = strings.TrimSpace(spec)
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = strings.TrimSpace(attr.Key[1:])
		}
		if attr.Key == "" {
			return fmt.Errorf("empty field in %q", value)
		}
		log.Tracef("key parsed: key=%s, include=%v", attr.Key, attr.Include)

		if attr.Key == "*" {
			for i := range *a {
				(*a)[i].Include = attr.Include
			}
			continue
		}

		// A key already in the list keeps its position.
		for i := range *a {
			if (*a)[i].Key == attr.Key {
				(*a)[i].Include = attr.Include
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
		log.Tracef("attr appended: len=%d", len(*a))
	}

	return nil
}

// Keys returns the included keys in list order.
func (a AttrList) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			keys = append(keys, attr.Key)
		}
	}
	return keys
}

// String returns the list in the form Set accepts.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		if attr.Include {
			result = append(result, attr.Key)
		} else {
			result = append(result, "!"+attr.Key)
		}
	}
	return strings.Join(result, ",")
}
