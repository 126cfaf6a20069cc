// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/scrapediff/scrapediff/internal/differ"
	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// generatedLayout is how the generation time is printed in reports.
const generatedLayout = "2006-01-02 15:04:05"

// spanMagnitudes express the distance between two snapshots in pt-BR.
var spanMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "mesmo instante", DivBy: time.Second},
	{D: time.Minute, Format: "%d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 dia", DivBy: 1},
	{D: humanize.Month, Format: "%d dias", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "1 mês", DivBy: 1},
	{D: humanize.Year, Format: "%d meses", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "1 ano", DivBy: 1},
	{D: math.MaxInt64, Format: "%d anos", DivBy: humanize.Year},
}

// Span describes the time between the two stamps of a result, or "" when
// either does not parse.
func Span(res differ.ComparisonResult) string {
	old, err := time.Parse(snapshot.NameLayout, res.OldTimestamp)
	if err != nil {
		return ""
	}
	new, err := time.Parse(snapshot.NameLayout, res.NewTimestamp)
	if err != nil {
		return ""
	}
	return humanize.CustomRelTime(old, new, "", "", spanMagnitudes)
}

func renderText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "RELATÓRIO DE COMPARAÇÃO DE SCRAPES")
	fmt.Fprintf(bw, "Gerado em: %s\n\n", r.GeneratedAt.Format(generatedLayout))

	if len(r.Results) == 0 {
		fmt.Fprintln(bw, "Nenhuma mudança detectada.")
		return bw.Flush()
	}

	for _, id := range r.Entities() {
		results := r.Results[id]
		fmt.Fprintf(bw, "=== Room ID: %s ===\n", id)
		fmt.Fprintf(bw, "Total de comparações: %s\n\n", humanize.Comma(int64(len(results))))

		for i, res := range results {
			fmt.Fprintf(bw, "Comparação %d:\n", i+1)
			fmt.Fprintf(bw, "Arquivo antigo: %s\n", res.OldSource)
			fmt.Fprintf(bw, "Arquivo novo: %s\n", res.NewSource)
			fmt.Fprintf(bw, "Período: %s → %s", res.OldTimestamp, res.NewTimestamp)
			if span := Span(res); span != "" {
				fmt.Fprintf(bw, " (%s)", span)
			}
			fmt.Fprintln(bw)
			fmt.Fprintln(bw, "Mudanças detectadas:")
			for _, c := range res.Changes {
				fmt.Fprintf(bw, "  - %s\n", c.Formatted)
			}
			fmt.Fprintln(bw)
		}
	}

	return bw.Flush()
}
