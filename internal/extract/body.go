// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// interstitialPhrases mark the page served instead of a listing when the
// scraper was detected. Matched case-insensitively.
var interstitialPhrases = []string{
	"não funcionam corretamente sem a habilitação do javascript",
	"without javascript enabled",
}

var boilerplatePatterns = []string{
	"sidebar", "footer", "header", "nav", "menu", "breadcrumb",
	"cookie", "banner", "advert", "social", "share", "comment",
	"related", "widget", "popup", "modal",
}

// IsInterstitial reports whether text carries an interstitial phrase.
func IsInterstitial(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range interstitialPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// primaryBody returns the main content of root as plain text, or "" when no
// content node is found.
func (x *Extractor) primaryBody(root *html.Node) string {
	var parts []string
	for _, n := range findAll(root, atom.Main, atom.Article) {
		if isBoilerplate(n) {
			continue
		}
		if text := collectText(n); utf8.RuneCountInString(text) >= x.minContent {
			parts = append(parts, renderNode(n))
		}
	}

	if len(parts) == 0 {
		body := findAll(root, atom.Body)
		start := root
		if len(body) > 0 {
			start = body[0]
		}
		best := densestNode(start, x.minContent)
		if best == nil {
			return ""
		}
		parts = append(parts, renderNode(best))
	}

	md, err := x.md.ConvertString(strings.Join(parts, "\n"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(plainText(md))
}

var (
	mdImageRE   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLinkRE    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdStrongRE  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdHeadingRE = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	mdEscapeRE  = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!|<>~])")
)

// plainText drops the link, image, heading and strong syntax from md and
// undoes its escapes. Lists and tables keep their markers.
func plainText(md string) string {
	md = mdImageRE.ReplaceAllString(md, "$1")
	md = mdLinkRE.ReplaceAllString(md, "$1")
	md = mdStrongRE.ReplaceAllString(md, "$1")
	md = mdHeadingRE.ReplaceAllString(md, "")
	return mdEscapeRE.ReplaceAllString(md, "$1")
}

// contentDoc returns a copy of doc without the elements that never render
// as page text.
func contentDoc(doc *goquery.Document) *goquery.Document {
	clone := goquery.CloneDocument(doc)
	clone.Find("script, style, head, meta, link, noscript, template").Remove()
	return clone
}

// fallbackBody strips non-content elements and returns the text of main, or
// of the whole document, one text run per line.
func fallbackBody(doc *goquery.Document) string {
	clone := contentDoc(doc)

	sel := clone.Find("main").First()
	if sel.Length() == 0 {
		sel = clone.Selection
	}

	var lines []string
	for _, n := range sel.Nodes {
		walkText(n, func(s string) {
			if s = strings.TrimSpace(s); s != "" {
				lines = append(lines, s)
			}
		})
	}
	return strings.Join(lines, "\n")
}

// collapseBlankLines trims every line and drops empty ones.
func collapseBlankLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func walkText(n *html.Node, fn func(string)) {
	if n.Type == html.TextNode {
		fn(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

type candidate struct {
	node     *html.Node
	density  float64
	linkDens float64
	textLen  int
}

// densestNode finds the content node with the best mix of text-to-markup
// density and low link density.
func densestNode(root *html.Node, minLen int) *html.Node {
	var candidates []candidate

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode || isBoilerplate(n) {
			return
		}
		if isContentTag(n.DataAtom) || n.DataAtom == atom.Body {
			if text := collectText(n); len(text) >= minLen {
				markup := len(renderNode(n))
				if markup == 0 {
					markup = 1
				}
				candidates = append(candidates, candidate{
					node:     n,
					density:  float64(len(text)) / float64(markup),
					linkDens: float64(len(collectLinkText(n))) / float64(len(text)),
					textLen:  len(text),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var best *html.Node
	var bestScore float64
	for _, c := range candidates {
		if c.linkDens > 0.5 {
			continue
		}
		score := c.density * logScale(c.textLen) * (1 - c.linkDens)
		if score > bestScore {
			bestScore = score
			best = c.node
		}
	}
	return best
}

func logScale(n int) float64 {
	scale := 1.0
	for v := n; v > 100; v /= 2 {
		scale++
	}
	return scale
}

func findAll(root *html.Node, tags ...atom.Atom) []*html.Node {
	for _, tag := range tags {
		var found []*html.Node
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode && n.DataAtom == tag {
				found = append(found, n)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

func isContentTag(a atom.Atom) bool {
	switch a {
	case atom.Main, atom.Article, atom.Section, atom.Div, atom.P,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Li,
		atom.Table, atom.Td, atom.Th, atom.Dl, atom.Dd, atom.Dt:
		return true
	}
	return false
}

func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Nav, atom.Footer, atom.Header, atom.Aside:
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class", "id":
			lower := strings.ToLower(attr.Val)
			for _, p := range boilerplatePatterns {
				if strings.Contains(lower, p) {
					return true
				}
			}
		case "role":
			switch attr.Val {
			case "navigation", "banner", "contentinfo", "complementary":
				return true
			}
		}
	}
	return false
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

func collectLinkText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node, bool)
	f = func(n *html.Node, inLink bool) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			inLink = true
		}
		if n.Type == html.TextNode && inLink {
			sb.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c, inLink)
		}
	}
	f(n, false)
	return sb.String()
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}
