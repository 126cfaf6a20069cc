// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapediff/scrapediff/internal/snapshot"
	"github.com/scrapediff/scrapediff/internal/source"
)

var fixedNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestExtractFile_PrimarySelectors(t *testing.T) {
	rec, err := newTestExtractor().ExtractFile(filepath.Join("testdata", "airbnb_12345_2025-03-31T01-40-57.html"))
	require.NoError(t, err)

	assert.Equal(t, "airbnb_12345_2025-03-31T01-40-57.html", rec.Metadata.SourceFile)
	assert.Equal(t, "2025-03-31T01:40:57", rec.Metadata.Timestamp)
	assert.Equal(t, "12345", rec.Metadata.EntityID)
	assert.Equal(t, fixedNow.Format(time.RFC3339), rec.Metadata.ExtractionDate)
	assert.False(t, rec.Metadata.Blocked)
	assert.False(t, rec.Metadata.LowQuality)

	l := rec.Listing
	assert.Equal(t, "Casa & Jardim na Praia", l["title"].Str())
	assert.Equal(t, 1234.56, l["price"].Num())
	assert.Equal(t, "R$ 1.234,56", l["price_text"].Str())
	assert.Equal(t, 4.85, l["rating"].Num())
	assert.Equal(t, 1024.0, l["review_count"].Num())
	assert.Equal(t, "Florianópolis, Santa Catarina, Brasil", l["location"].Str())
	assert.Equal(t, []string{"2 rooms", "1 bathrooms", "3 beds"}, l["features"].Items())

	assert.Contains(t, rec.Content, "Uma casa ampla")
	assert.Contains(t, rec.Content, "Casa & Jardim na Praia")
	assert.NotContains(t, rec.Content, "#", "heading markers are dropped")
	assert.NotContains(t, rec.Content, "window.__state")
	assert.NotContains(t, rec.Content, "Ajuda", "navigation is boilerplate")
}

func TestExtractFile_FallbackStrategies(t *testing.T) {
	rec, err := newTestExtractor().ExtractFile(filepath.Join("testdata", "airbnb_777_now.html"))
	require.NoError(t, err)

	assert.Equal(t, "777", rec.Metadata.EntityID)
	_, err = time.Parse(snapshot.RecordLayout, rec.Metadata.Timestamp)
	assert.NoError(t, err, "timestamp falls back to the file time")

	l := rec.Listing
	assert.Equal(t, "Loft no Centro", l["title"].Str(), "document title loses the site suffix")
	assert.Equal(t, 350.0, l["price"].Num())
	assert.Equal(t, "R$ 350", l["price_text"].Str())
	assert.Equal(t, 4.92, l["rating"].Num(), "non-numeric ratings move the chain on")
	assert.Equal(t, 87.0, l["review_count"].Num())
	assert.Equal(t, "São Paulo, Brasil", l["location"].Str())
	assert.Equal(t, []string{"1 rooms", "1 bathrooms", "2 beds"}, l["features"].Items())
}

func TestExtractFile_Interstitial(t *testing.T) {
	rec, err := newTestExtractor().ExtractFile(filepath.Join("testdata", "airbnb_555_2025-01-02T03-04-05.html"))
	require.NoError(t, err)

	assert.True(t, rec.Metadata.Blocked)
	assert.True(t, rec.Metadata.LowQuality)
	assert.Equal(t, "2025-01-02T03:04:05", rec.Metadata.Timestamp)
	assert.Equal(t, "Airbnb", rec.Listing["title"].Str())
	assert.True(t, rec.Listing["price"].IsAbsent())
	assert.True(t, rec.Listing["features"].IsAbsent())
}

func TestExtract_Chains(t *testing.T) {
	html := `<html><head><title>T - Airbnb</title><meta property="og:title" content="From OG"></head>
		<body><h1>   </h1><h1 class="_fecoyn4">From class</h1></body></html>`

	rec, err := newTestExtractor().Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "From class", rec.Listing["title"].Str())

	x := New(WithChains(Chains{"title": {MetaContent(`meta[property="og:title"]`), Selector(titleTag)}}))
	rec, err = x.Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "From OG", rec.Listing["title"].Str())
	assert.Equal(t, fixedNow.Format(snapshot.RecordLayout), rec.Metadata.Timestamp)
}

func TestExtract_SanitizesText(t *testing.T) {
	html := `<html><head><meta property="og:title" content="&lt;b&gt;From OG&lt;/b&gt; &amp; co"></head>
		<body><h1 data-testid="listing-title">&lt;b&gt;Bold&lt;/b&gt; &amp; co</h1></body></html>`

	rec, err := newTestExtractor().Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "<b>Bold</b> & co", rec.Listing["title"].Str(), "element text is kept as decoded")

	x := New(WithChains(Chains{"title": {MetaContent(`meta[property="og:title"]`)}}))
	rec, err = x.Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "From OG & co", rec.Listing["title"].Str(), "attribute markup is dropped")
}

func TestExtract_IgnoresNonContentText(t *testing.T) {
	html := `<html><head><title></title>
		<script>{"maxCapacity":"16 beds","fee":"$9","badge":"★ 1,00","seo":"4000 reviews"}</script>
		<style>.x::after { content: "2 quartos"; }</style></head>
		<body><noscript>R$ 50</noscript><main><p>Apartamento simples perto do centro.</p></main></body></html>`

	rec, err := newTestExtractor().Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)

	for _, field := range []string{"price", "rating", "review_count", "features"} {
		assert.True(t, rec.Listing[field].IsAbsent(), field)
	}
	assert.Equal(t, "Apartamento simples perto do centro.", rec.Content)
}

func TestExtract_ShortBodyCountsCharacters(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("ção ", 18))
	require.Less(t, len([]rune(body)), DefaultMinBody)
	require.Greater(t, len(body), DefaultMinBody)

	html := `<html><body><main><p>` + body + `</p></main></body></html>`
	rec, err := newTestExtractor().Extract("airbnb_1_x.html", []byte(html), fixedNow)
	require.NoError(t, err)
	assert.True(t, rec.Metadata.LowQuality)
	assert.Equal(t, body, rec.Content)

	blocked := `<html><body><main><p>` + body + ` Without JavaScript enabled.</p></main></body></html>`
	rec, err = newTestExtractor().Extract("airbnb_1_x.html", []byte(blocked), fixedNow)
	require.NoError(t, err)
	assert.True(t, rec.Metadata.Blocked)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{name: "heading", md: "# Casa\n\n## Quartos", want: "Casa\n\nQuartos"},
		{name: "link", md: "Veja [o mapa](https://example.com/m \"Mapa\") agora", want: "Veja o mapa agora"},
		{name: "image", md: "![Sala](/img/sala.jpg) ampla", want: "Sala ampla"},
		{name: "strong", md: "**Wi-Fi** rápido", want: "Wi-Fi rápido"},
		{name: "escapes", md: "1\\. piso \\*novo\\*", want: "1. piso *novo*"},
		{name: "list", md: "- Wi-Fi\n- Cozinha", want: "- Wi-Fi\n- Cozinha"},
		{name: "hash inside line", md: "Quarto #2", want: "Quarto #2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.md))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"R$ 350", 350, true},
		{"R$1.200", 1200, true},
		{"R$ 1.234,56", 1234.56, true},
		{"$1,234.56", 1234.56, true},
		{"R$ 99,90 por noite", 99.9, true},
		{"R$ 1.200.000", 1200000, true},
		{"1.5", 1.5, true},
		{"350.", 350, true},
		{"grátis", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseRatingAndReviews(t *testing.T) {
	v, ok := ParseRating("4,85")
	assert.True(t, ok)
	assert.Equal(t, 4.85, v)

	_, ok = ParseRating("Novo")
	assert.False(t, ok)

	n, ok := ParseReviewCount("1.024 avaliações")
	assert.True(t, ok)
	assert.Equal(t, 1024, n)

	_, ok = ParseReviewCount("sem avaliações")
	assert.False(t, ok)
}

func TestParseFeatures(t *testing.T) {
	got, ok := ParseFeatures("2 quartos · 1 banheiro · 3 camas")
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"rooms": 2, "bathrooms": 1, "beds": 3}, got)

	got, ok = ParseFeatures("3 bedrooms")
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"rooms": 3}, got, "bedrooms is not a bed count")

	_, ok = ParseFeatures("vista para o mar")
	assert.False(t, ok)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Loft", CleanTitle("Loft - Airbnb - Brasil", titleTag))
	assert.Equal(t, "Loft - Airbnb", CleanTitle("Loft - Airbnb", "h1"))
}

func TestIsInterstitial(t *testing.T) {
	assert.True(t, IsInterstitial("This page does not work WITHOUT JAVASCRIPT ENABLED."))
	assert.True(t, IsInterstitial("Recursos NÃO funcionam corretamente sem a habilitação do JavaScript"))
	assert.False(t, IsInterstitial("Casa na praia"))
}

func TestFallbackBody(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><title>x</title></head><body><p>fora</p><main><script>s()</script><p> a </p>

		<p>b</p></main></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "a\nb", fallbackBody(doc))
	assert.Equal(t, 1, doc.Find("script").Length(), "document is left untouched")
}

func TestCollapseBlankLines(t *testing.T) {
	assert.Equal(t, "a\nb", collapseBlankLines("  a \n\n\n  b  \n"))
}

type memStore struct {
	recs []snapshot.Record
	fail string
}

func (m *memStore) Put(ctx context.Context, rec snapshot.Record) error {
	if rec.Metadata.SourceFile == m.fail {
		return errors.New("boom")
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) Close() error { return nil }

func TestRun(t *testing.T) {
	src, err := source.NewLocal("testdata", source.WithExt(".html"))
	require.NoError(t, err)

	st := &memStore{fail: "airbnb_777_now.html"}
	stats, err := newTestExtractor().Run(context.Background(), src, st)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Blocked)
	assert.Equal(t, 1, stats.Failed)
	assert.Len(t, st.recs, 2)
}
