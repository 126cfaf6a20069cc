// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/apex/log"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"

	"github.com/scrapediff/scrapediff/internal/snapshot"
	"github.com/scrapediff/scrapediff/internal/source"
	"github.com/scrapediff/scrapediff/internal/store"
)

// DefaultMinBody is the body length below which the fallback extraction runs
// and the record is flagged low quality.
const DefaultMinBody = 100

// Extractor converts listing HTML into records. It holds no per-document
// state and can be reused.
type Extractor struct {
	Prefix  string
	MinBody int

	chains     Chains
	minContent int
	policy     *bluemonday.Policy
	md         *converter.Converter
	now        func() time.Time
}

type Option func(x *Extractor)

// New returns an Extractor with the default chains.
func New(options ...Option) *Extractor {
	x := &Extractor{
		Prefix:     snapshot.DefaultPrefix,
		MinBody:    DefaultMinBody,
		chains:     DefaultChains(),
		minContent: 50,
		policy:     bluemonday.StrictPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		now: time.Now,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

// WithPrefix sets the source-name prefix used to find the entity id.
func WithPrefix(prefix string) Option {
	return func(x *Extractor) {
		if prefix != "" {
			x.Prefix = prefix
		}
	}
}

// WithMinBody sets the low-quality body threshold.
func WithMinBody(n int) Option {
	return func(x *Extractor) {
		if n > 0 {
			x.MinBody = n
		}
	}
}

// WithChains replaces the strategy chain of the named fields.
func WithChains(c Chains) Option {
	return func(x *Extractor) {
		for k, v := range c {
			x.chains[k] = v
		}
	}
}

// WithClock fixes the extraction time.
func WithClock(now func() time.Time) Option {
	return func(x *Extractor) { x.now = now }
}

// Extract builds a record from one document. name is the source name and
// modTime its last-modified time, used when the name carries no timestamp.
func (x *Extractor) Extract(name string, body []byte, modTime time.Time) (snapshot.Record, error) {
	root, err := xhtml.Parse(bytes.NewReader(body))
	if err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	base := filepath.Base(name)
	rec := snapshot.Record{
		Metadata: snapshot.Metadata{
			SourceFile:     base,
			ExtractionDate: x.now().Format(time.RFC3339),
			Timestamp:      x.timestamp(base, modTime),
		},
		Listing: x.fields(doc),
	}
	if id, ok := snapshot.EntityFromName(base, x.Prefix); ok {
		rec.Metadata.EntityID = id
	}

	content := x.primaryBody(root)
	if utf8.RuneCountInString(content) < x.MinBody {
		if IsInterstitial(doc.Text()) {
			rec.Metadata.Blocked = true
			log.Warnf("%s: interstitial page, record flagged as blocked", base)
		}
		if fb := collapseBlankLines(fallbackBody(doc)); utf8.RuneCountInString(fb) > utf8.RuneCountInString(content) {
			content = fb
		}
	}
	rec.Content = content
	rec.Metadata.LowQuality = utf8.RuneCountInString(content) < x.MinBody

	return rec, nil
}

// ExtractFile reads and extracts a file from disk.
func (x *Extractor) ExtractFile(path string) (snapshot.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return snapshot.Record{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return x.Extract(path, body, info.ModTime())
}

// Stats summarises a directory run.
type Stats struct {
	Processed int
	Blocked   int
	Failed    int
}

// Run extracts every source in src and hands each record to st. A failure
// on one source is logged and counted; the batch continues.
func (x *Extractor) Run(ctx context.Context, src source.Source, st store.Store) (Stats, error) {
	var stats Stats

	names, err := src.List(ctx)
	if err != nil {
		return stats, err
	}
	log.Infof("extracting %d sources from %s", len(names), src)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		body, mod, err := src.Read(ctx, name)
		if err != nil {
			log.WithError(err).Errorf("failed to read %s", name)
			stats.Failed++
			continue
		}

		rec, err := x.Extract(name, body, mod)
		if err != nil {
			log.WithError(err).Errorf("failed to extract %s", name)
			stats.Failed++
			continue
		}

		if err := st.Put(ctx, rec); err != nil {
			log.WithError(err).Errorf("failed to store %s", name)
			stats.Failed++
			continue
		}

		stats.Processed++
		if rec.Metadata.Blocked {
			stats.Blocked++
		}
	}

	return stats, nil
}

func (x *Extractor) fields(doc *goquery.Document) snapshot.Listing {
	out := snapshot.Listing{}
	for _, field := range snapshot.Monitored {
		for _, s := range x.chains[field] {
			raw, ok := s.Find(doc)
			if !ok {
				continue
			}
			text := collapse(raw)
			if s.Attr {
				text = x.sanitize(raw)
			}
			if text == "" {
				continue
			}
			vals, ok := parseField(field, s.Name, text)
			if !ok {
				log.Debugf("%s: strategy %s rejected %q", field, s.Name, text)
				continue
			}
			for k, v := range vals {
				out[k] = v
			}
			break
		}
	}
	return out
}

// sanitize drops markup from attribute values. Element text is already
// decoded by the parser and is left alone.
func (x *Extractor) sanitize(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(x.policy.Sanitize(s))), " ")
}

func (x *Extractor) timestamp(name string, modTime time.Time) string {
	if ts, ok := snapshot.FindStamp(name); ok {
		return ts
	}
	if modTime.IsZero() {
		modTime = x.now()
	}
	return modTime.Format(snapshot.RecordLayout)
}
