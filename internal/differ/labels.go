// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

var labels = map[string]string{
	"title":        "Título",
	"price":        "Preço",
	"rating":       "Avaliação",
	"review_count": "Número de avaliações",
	"location":     "Localização",
	"features":     "Características",
}

// Label returns the display label of field, or field itself when unknown.
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}
