// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

var (
	amountRE   = regexp.MustCompile(`\d[\d.,]*`)
	digitsRE   = regexp.MustCompile(`\d+`)
	roomsRE    = regexp.MustCompile(`(?i)(\d+)\s*(?:quartos?|bedrooms?)`)
	bathsRE    = regexp.MustCompile(`(?i)(\d+)\s*(?:banheiros?|bathrooms?|baths?)`)
	bedsRE     = regexp.MustCompile(`(?i)(\d+)\s*(?:camas?|beds?)\b`)
	airbnbTail = " - Airbnb"
)

// ParseAmount reads a money amount written with either pt-BR (1.234,56) or
// en-US (1,234.56) grouping. A lone separator followed by exactly three
// digits is taken as a thousands separator.
func ParseAmount(text string) (float64, bool) {
	m := amountRE.FindString(text)
	m = strings.TrimRight(m, ".,")
	if m == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(m, ".")
	lastComma := strings.LastIndex(m, ",")

	var num string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			num = strings.ReplaceAll(m, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(m, ",", "")
		}
	case lastComma >= 0:
		num = singleSeparator(m, ",")
	case lastDot >= 0:
		num = singleSeparator(m, ".")
	default:
		num = m
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// singleSeparator resolves an amount using only sep.
func singleSeparator(m, sep string) string {
	parts := strings.Split(m, sep)
	grouped := len(parts) > 1
	for _, p := range parts[1:] {
		if len(p) != 3 {
			grouped = false
			break
		}
	}
	if grouped {
		return strings.Join(parts, "")
	}
	if len(parts) == 2 {
		return parts[0] + "." + parts[1]
	}
	return strings.Join(parts, "")
}

// ParseRating reads a decimal rating where comma is the decimal separator.
func ParseRating(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseReviewCount concatenates every digit run in text.
func ParseReviewCount(text string) (int, bool) {
	digits := strings.Join(digitsRE.FindAllString(text, -1), "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFeatures finds room, bathroom and bed counts in text.
func ParseFeatures(text string) (map[string]int, bool) {
	counts := map[string]int{}
	for kind, re := range map[string]*regexp.Regexp{"rooms": roomsRE, "bathrooms": bathsRE, "beds": bedsRE} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				counts[kind] = n
			}
		}
	}
	return counts, len(counts) > 0
}

// CleanTitle drops the site suffix carried by the document title.
func CleanTitle(text, strategy string) string {
	if strategy != titleTag {
		return text
	}
	if before, _, found := strings.Cut(text, airbnbTail); found {
		return strings.TrimSpace(before)
	}
	return text
}

// parseField applies the field's parser to raw text. ok false means the
// chain should move on.
func parseField(field, strategy, text string) (map[string]snapshot.FieldValue, bool) {
	switch field {
	case "title":
		return map[string]snapshot.FieldValue{field: snapshot.StringValue(CleanTitle(text, strategy))}, true
	case "price":
		out := map[string]snapshot.FieldValue{"price_text": snapshot.StringValue(text)}
		if v, ok := ParseAmount(text); ok {
			out[field] = snapshot.NumberValue(v)
		} else {
			out[field] = snapshot.StringValue(text)
		}
		return out, true
	case "rating":
		v, ok := ParseRating(text)
		if !ok {
			return nil, false
		}
		return map[string]snapshot.FieldValue{field: snapshot.NumberValue(v)}, true
	case "review_count":
		n, ok := ParseReviewCount(text)
		if !ok {
			return nil, false
		}
		return map[string]snapshot.FieldValue{field: snapshot.NumberValue(float64(n))}, true
	case "features":
		counts, ok := ParseFeatures(text)
		if !ok {
			return nil, false
		}
		return map[string]snapshot.FieldValue{field: snapshot.ListValue(snapshot.FeatureList(counts))}, true
	default:
		return map[string]snapshot.FieldValue{field: snapshot.StringValue(text)}, true
	}
}
