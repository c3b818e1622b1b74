package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/kmy/output"
)

// align is the alignment of a table column.
type align int

const (
	alignLeft align = iota
	alignRight
)

// table renders rows as aligned columns. Cells are measured by display
// width, so styled cells must be styled after measuring; see style.
type table struct {
	headers []string
	aligns  []align
	rows    [][]string
	// style optionally styles a cell after it has been padded.
	style func(row, col int, padded string) string
}

func newTable(headers ...string) *table {
	return &table{
		headers: headers,
		aligns:  make([]align, len(headers)),
	}
}

func (t *table) alignRight(cols ...int) *table {
	for _, c := range cols {
		t.aligns[c] = alignRight
	}
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer, styles *output.Styles) {
	widths := make([]int, len(t.headers))
	for c, h := range t.headers {
		widths[c] = output.Width(h)
	}
	for _, row := range t.rows {
		for c, cell := range row {
			if cw := output.Width(cell); cw > widths[c] {
				widths[c] = cw
			}
		}
	}

	pad := func(c int, text string) string {
		if t.aligns[c] == alignRight {
			return output.PadLeft(text, widths[c])
		}
		return output.PadRight(text, widths[c])
	}

	header := make([]string, len(t.headers))
	for c, h := range t.headers {
		header[c] = styles.Keyword(pad(c, h))
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(header, "  "), " "))

	for r, row := range t.rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = pad(c, cell)
			if t.style != nil {
				cells[c] = t.style(r, c, cells[c])
			}
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
