package tui

import (
	"fmt"
	"strings"

	"github.com/stockdeck/stockdeck/internal/table"
)

const maxColWidth = 28

// renderTable draws a computed page: header with sort arrow, rows,
// variant sub-rows under the expanded row, and a pagination footer
// over the filtered count.
func renderTable(eng *table.Engine, p table.Page, cursor int) string {
	headers := eng.Headers()
	sortBy, sortAsc := eng.Sort()

	labels := make([]string, len(headers))
	for i, h := range headers {
		label := table.HeaderLabel(h)
		if h == sortBy {
			if sortAsc {
				label += " ↑"
			} else {
				label += " ↓"
			}
		}
		labels[i] = label
	}

	widths := columnWidths(labels, p.Rows)

	var b strings.Builder
	b.WriteString(styleHeader.Render(joinCells(labels, widths)))
	b.WriteString("\n")

	switch {
	case p.Loading:
		b.WriteString(styleMuted.Render("  Loading..."))
	case len(p.Rows) == 0:
		b.WriteString(styleMuted.Render("  No data found"))
	default:
		for i, row := range p.Rows {
			line := joinCells(row.Cells, widths)
			if row.CanExpand {
				if row.Expanded {
					line = "▾ " + line
				} else {
					line = "▸ " + line
				}
			} else {
				line = "  " + line
			}
			if i == cursor {
				b.WriteString(styleRowSelected.Render(line))
			} else {
				b.WriteString(styleRow.Render(line))
			}
			b.WriteString("\n")
			if row.Expanded {
				for _, v := range row.Record.Variants() {
					sub := fmt.Sprintf("%s  cost %s  price %s", v.Name, v.Cost, v.Price)
					b.WriteString(styleSubRow.Render(sub))
					b.WriteString("\n")
				}
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styleMuted.Render(paginationFooter(p)))
	return b.String()
}

func paginationFooter(p table.Page) string {
	if p.Loading {
		return ""
	}
	pages := p.PageCount
	if pages == 0 {
		pages = 1
	}
	return fmt.Sprintf("Page %d of %d · %d records · size %d",
		p.Index+1, pages, p.Filtered, p.PageSize)
}

func columnWidths(labels []string, rows []table.Row) []int {
	widths := make([]int, len(labels))
	for i, l := range labels {
		widths[i] = len([]rune(l))
	}
	for _, row := range rows {
		for i, c := range row.Cells {
			if i >= len(widths) {
				break
			}
			if n := len([]rune(c)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func joinCells(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		w := widths[i]
		r := []rune(c)
		if len(r) > w {
			c = string(r[:w-1]) + "…"
		}
		out[i] = fmt.Sprintf("%-*s", w, c)
	}
	return strings.Join(out, "  ")
}
