// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy locates the raw text of one field. Attr marks text read from an
// attribute value, which may still carry markup.
type Strategy struct {
	Name string
	Attr bool
	Find func(doc *goquery.Document) (string, bool)
}

// Selector returns a strategy taking the text of the first element matching
// sel.
func Selector(sel string) Strategy {
	return Strategy{
		Name: sel,
		Find: func(doc *goquery.Document) (string, bool) {
			s := doc.Find(sel).First()
			if s.Length() == 0 {
				return "", false
			}
			text := collapse(s.Text())
			return text, text != ""
		},
	}
}

// MetaContent returns a strategy reading the content attribute of the first
// element matching sel.
func MetaContent(sel string) Strategy {
	return Strategy{
		Name: sel,
		Attr: true,
		Find: func(doc *goquery.Document) (string, bool) {
			v, ok := doc.Find(sel).First().Attr("content")
			v = collapse(v)
			return v, ok && v != ""
		},
	}
}

// Pattern returns a strategy matching re against the visible document text.
// The first capture group is returned when present, else the whole match.
func Pattern(name string, re *regexp.Regexp) Strategy {
	return Strategy{
		Name: name,
		Find: func(doc *goquery.Document) (string, bool) {
			m := re.FindStringSubmatch(contentDoc(doc).Text())
			if m == nil {
				return "", false
			}
			if len(m) > 1 && m[1] != "" {
				return strings.TrimSpace(m[1]), true
			}
			return strings.TrimSpace(m[0]), true
		},
	}
}

// Whole returns a strategy yielding the visible document text.
func Whole() Strategy {
	return Strategy{
		Name: "document",
		Find: func(doc *goquery.Document) (string, bool) {
			text := collapse(contentDoc(doc).Text())
			return text, text != ""
		},
	}
}

const titleTag = "title"

var (
	currencyRE = regexp.MustCompile(`(?:R\$|US\$|\$|€|£)\s?\d[\d.,]*`)
	starRE     = regexp.MustCompile(`★\s*(\d+[.,]\d+)`)
	reviewsRE  = regexp.MustCompile(`(?i)(\d[\d.]*)\s*(?:avaliações|avaliacoes|reviews)`)
)

// Chains maps each field to its ordered strategies.
type Chains map[string][]Strategy

// DefaultChains returns the strategy chains for the listing pages.
func DefaultChains() Chains {
	return Chains{
		"title": {
			Selector(`h1[data-testid="listing-title"]`),
			Selector("h1._fecoyn4"),
			Selector("h1.atm_7l_1kw7nm4"),
			Selector("h2.atm_7l_1kw7nm4"),
			MetaContent(`meta[property="og:title"]`),
			Selector("h1"),
			Selector(titleTag),
		},
		"price": {
			Selector(`span[data-testid="listing-price"]`),
			Selector("span._tyxjp1"),
			Selector("span.atm_c8_1n3c8jb"),
			Pattern("currency", currencyRE),
		},
		"rating": {
			Selector(`span[data-testid="rating-value"]`),
			Selector("span._17p6nbba"),
			Selector("span.atm_7l_1kw7nm4 span"),
			Pattern("star", starRE),
		},
		"review_count": {
			Selector(`span[data-testid="reviews-count"]`),
			Selector("span._s65ijh7"),
			Selector("button._1qf7wt0z span"),
			Pattern("reviews", reviewsRE),
		},
		"location": {
			Selector(`span[data-testid="listing-location"]`),
			Selector("div._9bezani"),
			Selector("div.atm_c8_exq9by5"),
		},
		"features": {
			Selector(`div[data-testid="listing-features"]`),
			Selector("div._1dotkqq"),
			Selector("div.atm_cs_1pkprkl"),
			Whole(),
		},
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
