// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"time"

	"github.com/scrapediff/scrapediff/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the starting working directory and the time
// the run started, which stamps every artifact written during the run.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
	StartedAt   time.Time
}

// RunStamp renders StartedAt in the source-name timestamp grammar so report
// names sort chronologically.
func (m Meta) RunStamp() string {
	t := m.StartedAt
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("2006-01-02T15-04-05")
}
