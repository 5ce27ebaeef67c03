// Package table implements the generic data-table core: search
// filtering, stable sorting, pagination and row rendering over any
// record set, with expandable variant sub-rows.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stockdeck/stockdeck/internal/helpers"
	"github.com/stockdeck/stockdeck/internal/model"
)

// PlaceholderPhotoURL is shown for records without a photo.
const PlaceholderPhotoURL = "https://developers.elementor.com/docs/assets/img/elementor-placeholder-image.png"

// PageSizes are the selectable page sizes. DefaultPageSize applies to
// every new engine.
var PageSizes = []int{5, 10, 20, 30, 50}

const DefaultPageSize = 10

// Engine holds one table's view state. State is transient and owned
// exclusively by a single table instance.
type Engine struct {
	label    string
	headers  []string
	page     int
	pageSize int
	query    string
	sortBy   string
	sortAsc  bool
	expanded int
}

// Row is one visible table row. Record is the original, unformatted
// record handed back to edit/delete actions; Cells align with the
// engine's headers.
type Row struct {
	Record    model.Record
	Cells     []string
	CanExpand bool
	Expanded  bool
}

// Page is the computed view for the current state.
type Page struct {
	Rows      []Row
	Filtered  int
	Index     int
	PageCount int
	PageSize  int
	Loading   bool
}

func New(label string, headers []string) *Engine {
	return &Engine{
		label:    label,
		headers:  headers,
		pageSize: DefaultPageSize,
		expanded: -1,
	}
}

func (e *Engine) Label() string       { return e.label }
func (e *Engine) Headers() []string   { return e.headers }
func (e *Engine) Query() string       { return e.query }
func (e *Engine) PageIndex() int      { return e.page }
func (e *Engine) PageSize() int       { return e.pageSize }
func (e *Engine) ExpandedRow() int    { return e.expanded }
func (e *Engine) Sort() (string, bool) { return e.sortBy, e.sortAsc }

// SetQuery updates the search query. Any change moves back to the
// first page.
func (e *Engine) SetQuery(q string) {
	if q == e.query {
		return
	}
	e.query = q
	e.page = 0
	e.expanded = -1
}

// SetPageSize switches to one of the allowed sizes and moves back to
// the first page. Unknown sizes are ignored.
func (e *Engine) SetPageSize(n int) {
	valid := false
	for _, s := range PageSizes {
		if s == n {
			valid = true
			break
		}
	}
	if !valid {
		return
	}
	e.pageSize = n
	e.page = 0
	e.expanded = -1
}

// SetPage clamps to [0, PageCount-1] for the given filtered count.
// Leaving the page closes any open row.
func (e *Engine) SetPage(n, filtered int) {
	last := pageCount(filtered, e.pageSize) - 1
	if last < 0 {
		last = 0
	}
	if n < 0 {
		n = 0
	}
	if n > last {
		n = last
	}
	if n == e.page {
		return
	}
	e.page = n
	e.expanded = -1
}

func (e *Engine) NextPage(filtered int) { e.SetPage(e.page+1, filtered) }
func (e *Engine) PrevPage(filtered int) { e.SetPage(e.page-1, filtered) }

// ToggleSort activates ascending sort on the column, flips direction
// when the column is already active.
func (e *Engine) ToggleSort(column string) {
	if e.sortBy == column {
		e.sortAsc = !e.sortAsc
		return
	}
	e.sortBy = column
	e.sortAsc = true
}

// ClearSort returns to filter order.
func (e *Engine) ClearSort() {
	e.sortBy = ""
	e.sortAsc = false
}

// ToggleExpand opens or closes the row at idx on the computed page. At
// most one row is open; rows without variants never open.
func (e *Engine) ToggleExpand(p Page, idx int) {
	if idx < 0 || idx >= len(p.Rows) || !p.Rows[idx].CanExpand {
		return
	}
	if e.expanded == idx {
		e.expanded = -1
	} else {
		e.expanded = idx
	}
}

// Compute runs the full pipeline over data: filter, format, sort,
// paginate, cell render. It never mutates data.
func (e *Engine) Compute(data []model.Record, loading bool) Page {
	if loading {
		return Page{Loading: true, PageSize: e.pageSize}
	}

	filtered := e.filter(data)
	display := e.format(filtered)
	e.sort(filtered, display)

	total := len(filtered)
	count := pageCount(total, e.pageSize)
	page := e.page
	if last := count - 1; last >= 0 && page > last {
		page = last
	}

	start := page * e.pageSize
	end := start + e.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	rows := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		rec := filtered[i]
		pos := i - start
		cells := make([]string, len(e.headers))
		for c, h := range e.headers {
			cells[c] = e.renderCell(h, display[i][h], pos)
		}
		canExpand := len(rec.Variants()) > 0
		rows = append(rows, Row{
			Record:    rec,
			Cells:     cells,
			CanExpand: canExpand,
			Expanded:  canExpand && e.expanded == pos,
		})
	}

	return Page{
		Rows:      rows,
		Filtered:  total,
		Index:     page,
		PageCount: count,
		PageSize:  e.pageSize,
	}
}

// filter keeps a record iff any header field's stringified value
// contains the query, case-insensitively. Empty query keeps all.
func (e *Engine) filter(data []model.Record) []model.Record {
	if e.query == "" {
		return append([]model.Record(nil), data...)
	}
	q := strings.ToLower(e.query)
	out := make([]model.Record, 0, len(data))
	for _, rec := range data {
		for _, h := range e.headers {
			if strings.Contains(strings.ToLower(stringify(rec.RawValue(h))), q) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// format builds display copies: timestamps become formatted dates,
// everything else is stringified as-is.
func (e *Engine) format(data []model.Record) []map[string]string {
	out := make([]map[string]string, len(data))
	for i, rec := range data {
		m := make(map[string]string, len(e.headers))
		for _, h := range e.headers {
			v := rec.RawValue(h)
			switch h {
			case "createdAt", "updatedAt":
				m[h] = helpers.FormatDate(model.AsInt64(v))
			default:
				m[h] = stringify(v)
			}
		}
		out[i] = m
	}
	return out
}

// sort orders data and display together by the active column. The
// comparator is plain byte-wise string comparison on display values,
// so capital letters sort before lowercase; equal keys keep their
// post-filter order via an index tie-break.
func (e *Engine) sort(data []model.Record, display []map[string]string) {
	if e.sortBy == "" {
		return
	}
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	col := e.sortBy
	sort.Slice(idx, func(a, b int) bool {
		ka, kb := display[idx[a]][col], display[idx[b]][col]
		if ka == kb {
			return idx[a] < idx[b]
		}
		if e.sortAsc {
			return ka < kb
		}
		return ka > kb
	})

	sortedData := make([]model.Record, len(data))
	sortedDisplay := make([]map[string]string, len(display))
	for i, j := range idx {
		sortedData[i] = data[j]
		sortedDisplay[i] = display[j]
	}
	copy(data, sortedData)
	copy(display, sortedDisplay)
}

// renderCell applies the per-field display rules. pos is the row's
// 0-based position within the page slice.
func (e *Engine) renderCell(header, display string, pos int) string {
	switch header {
	case "id":
		// Positional row counter, not the record's key.
		return strconv.Itoa(pos + 1)
	case "photo":
		if display == "" {
			return PlaceholderPhotoURL
		}
		return display
	case "variants":
		// Rendered as the expand affordance instead.
		return ""
	default:
		return helpers.Capitalize(display)
	}
}

// HeaderLabel maps a field key to its column heading.
func HeaderLabel(key string) string {
	switch key {
	case "createdAt":
		return "Date Created"
	case "updatedAt":
		return "Date Updated"
	default:
		return helpers.Capitalize(key)
	}
}

func pageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// stringify renders scalar field values for filtering and display.
// Composite values (the variants slice) carry no cell text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}
