// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/jeranaias/libsql-shell/internal/db"
	"github.com/jeranaias/libsql-shell/internal/util"
)

// maxCellWidth caps a result cell in display columns.
const maxCellWidth = 60

// renderResult prints the rows of res as a table. Statements without rows
// and empty result sets print nothing.
func renderResult(w io.Writer, res *db.Result, settings Settings) error {
	if !res.HasRows() || len(res.Rows) == 0 {
		return nil
	}

	data := make(pterm.TableData, 0, len(res.Rows)+1)
	if settings.Headers {
		header := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			header[i] = formatCell(col)
		}
		data = append(data, header)
	}
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			text := cell.Text
			if cell.Null {
				text = settings.NullValue
			}
			cells[i] = formatCell(text)
		}
		data = append(data, cells)
	}

	table, err := pterm.DefaultTable.
		WithHasHeader(settings.Headers).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func formatCell(s string) string {
	return util.TruncateWidth(util.SingleLine(s), maxCellWidth)
}

// formatColumns lays names out in columns filling top to bottom, then left
// to right, within width display columns.
func formatColumns(names []string, width int) string {
	if len(names) == 0 {
		return ""
	}

	colWidth := 0
	for _, name := range names {
		if w := util.StringWidth(name); w > colWidth {
			colWidth = w
		}
	}
	colWidth += 2

	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}
	rows := (len(names) + cols - 1) / cols

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(names) {
				break
			}
			name := names[i]
			// No trailing padding on the last name of a row.
			if (c+1)*rows+r < len(names) {
				name = util.PadRight(name, colWidth)
			}
			b.WriteString(name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
