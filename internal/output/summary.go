// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"

	"github.com/scrapediff/scrapediff/internal/config"
)

// SummaryOptions tunes Summary.
type SummaryOptions struct {
	Color bool
	// Sort is a comma separated list of entity, comparisons and changes, each
	// optionally prefixed with - for descending order.
	Sort    string
	Padding int
}

// SummaryRow is one line of the run summary.
type SummaryRow struct {
	Entity      string
	Comparisons int
	Changes     int
}

// SummaryRows builds the per-entity rows of r, sorted by spec.
func SummaryRows(r *Report, spec string) []SummaryRow {
	counts := Count(r)
	rows := make([]SummaryRow, 0, len(r.Results))
	for _, id := range r.Entities() {
		rows = append(rows, SummaryRow{
			Entity:      id,
			Comparisons: len(r.Results[id]),
			Changes:     counts[id],
		})
	}
	SortRows(rows, spec)
	return rows
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Summary writes a table of entity, comparisons and changes followed by a
// totals line. Only the totals line is written for an empty report.
func Summary(w io.Writer, r *Report, opts SummaryOptions) {
	if w == nil {
		w = os.Stdout
	}

	rows := SummaryRows(r, opts.Sort)
	footer := fmt.Sprintf("Detectadas mudanças em %d entidades, com um total de %d comparações.", len(rows), Comparisons(r))

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, headerStyle.Render(footer))
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Entity, strconv.Itoa(row.Comparisons), strconv.Itoa(row.Changes)})
	}

	pad := opts.Padding
	if pad <= 0 {
		pad = 2
	}
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers("ENTITY", "COMPARISONS", "CHANGES").
		BorderHeader(false).
		Rows(cells...)

	fmt.Fprintln(w, t)
	fmt.Fprintln(w, headerStyle.Render(footer))
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color so that output is reasonably
// visible for light and dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
