// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/xuri/excelize/v2"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// xlsxSheet is the worksheet holding one row per change.
const xlsxSheet = "Mudanças"

var xlsxHeader = []interface{}{
	"room_id", "comparison", "old_timestamp", "new_timestamp",
	"field", "old_value", "new_value", "formatted", "old_file", "new_file",
}

func renderXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return err
	}

	row := 2
	for _, id := range r.Entities() {
		for i, res := range r.Results[id] {
			for _, c := range res.Changes {
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				values := []interface{}{
					id, i + 1, res.OldTimestamp, res.NewTimestamp,
					c.Field, cellValue(c.OldValue), cellValue(c.NewValue),
					c.Formatted, res.OldSource, res.NewSource,
				}
				if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
					return fmt.Errorf("row %d: %w", row, err)
				}
				row++
			}
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.Write(w)
}

// cellValue keeps numbers numeric and renders everything else as text.
func cellValue(v snapshot.FieldValue) interface{} {
	switch v.Kind() {
	case snapshot.Absent:
		return ""
	case snapshot.Number:
		return v.Num()
	default:
		return v.String()
	}
}
