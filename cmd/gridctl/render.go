package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kasuganosora/datagrid/pkg/grid"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"golang.org/x/term"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
	columnGap      = "  "
)

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// renderSnapshot writes the visible columns of the current page as an
// aligned text table followed by a status line. A width of 0 disables
// truncation.
func renderSnapshot(w io.Writer, snap grid.Snapshot, width int) {
	columns := snap.Columns
	if len(columns) == 0 {
		fmt.Fprintln(w, "(all columns hidden)")
		renderStatus(w, snap)
		return
	}

	headers := make([]string, len(columns))
	widths := make([]int, len(columns))
	for i, col := range columns {
		headers[i] = headerLabel(snap, col)
		widths[i] = utf8.RuneCountInString(headers[i])
	}

	cells := make([][]string, len(snap.Items))
	for r, row := range snap.Items {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			cells[r][i] = formatCell(row[col.Field], col.Type)
			if n := utf8.RuneCountInString(cells[r][i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	fitWidths(widths, width)

	writeRow(w, headers, widths)
	rule := make([]string, len(columns))
	for i := range rule {
		rule[i] = strings.Repeat("-", widths[i])
	}
	writeRow(w, rule, widths)
	for _, row := range cells {
		writeRow(w, row, widths)
	}
	renderStatus(w, snap)
}

// headerLabel decorates the column label with its sort and filter state.
func headerLabel(snap grid.Snapshot, col domain.Column) string {
	label := col.Label()
	if dir, ok := snap.SortDirection(col.Field); ok {
		if dir == domain.SortAsc {
			label += " ^"
		} else {
			label += " v"
		}
	}
	if snap.IsFiltered(col.Field) {
		label += " *"
	}
	return label
}

func renderStatus(w io.Writer, snap grid.Snapshot) {
	p := snap.Query.Pagination
	switch {
	case snap.Loading:
		fmt.Fprintln(w, "loading...")
	case snap.IsEmpty():
		fmt.Fprintln(w, "no rows")
	default:
		first, last := 0, 0
		if len(snap.Items) > 0 {
			first = p.Offset() + 1
			last = p.Offset() + len(snap.Items)
		}
		fmt.Fprintf(w, "rows %d-%d of %d, page %d/%d, %d per page\n",
			first, last, snap.ItemCount, p.Page+1, snap.PageCount(), p.PageSize)
	}
	if n := snap.ActiveFilterCount(); n > 0 {
		fmt.Fprintf(w, "%d active filter(s)\n", n)
	}
	if len(snap.Hidden) > 0 {
		fmt.Fprintf(w, "hidden: %s\n", strings.Join(snap.Hidden, ", "))
	}
	if snap.Err != nil {
		fmt.Fprintf(w, "error: %v\n", snap.Err)
	}
}

// fitWidths shrinks the widest columns until the table fits total.
func fitWidths(widths []int, total int) {
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	if total <= 0 {
		return
	}
	budget := total - len(columnGap)*(len(widths)-1)
	for sum(widths) > budget {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
	}
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = pad(truncate(c, widths[i]), widths[i])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, columnGap), " "))
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "~"
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// formatCell renders a cell value for the terminal.
func formatCell(v interface{}, t domain.ColumnType) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04")
	}
	if t == domain.ColumnTypeDate {
		if d, ok := domain.ParseDate(v); ok {
			return d.Format("2006-01-02 15:04")
		}
	}
	if t == domain.ColumnTypeBoolean {
		if b, ok := v.(bool); ok {
			if b {
				return "yes"
			}
			return "no"
		}
	}
	return domain.FormatValue(v)
}
