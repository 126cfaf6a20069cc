// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"time"

	"github.com/apex/log"

	"github.com/scrapediff/scrapediff/internal/cacheutil"
	"github.com/scrapediff/scrapediff/internal/config"
)

// PurgeCache drops cached bodies older than cache.clean hours.
func PurgeCache() {
	hours, _ := config.GetInt("cache.clean", 0)
	n, err := cacheutil.Purge(time.Duration(hours) * time.Hour)
	if err != nil {
		log.WithError(err).Warn("failed to purge cache")
		return
	}
	if n > 0 {
		log.Debugf("purged %d cache entries", n)
	}
}

func cacheGet(bucket string, o object) ([]byte, bool) {
	return cacheutil.Get(cacheutil.Key{Bucket: bucket, Object: o.key, ETag: o.etag})
}

func cachePut(bucket string, o object, data []byte) error {
	return cacheutil.Put(cacheutil.Key{Bucket: bucket, Object: o.key, ETag: o.etag}, data)
}
