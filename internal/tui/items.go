package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stockdeck/stockdeck/internal/database"
	"github.com/stockdeck/stockdeck/internal/datasync"
	"github.com/stockdeck/stockdeck/internal/model"
	"github.com/stockdeck/stockdeck/internal/table"
)

// variantRow is one editable variant in the item form.
type variantRow struct {
	name  *field
	price *field
	cost  *field
}

type itemsScreen struct {
	caps Caps
	feed *datasync.Feed
	cats *datasync.Feed
	eng  *table.Engine

	mode    screenMode
	cursor  int
	sortIdx int

	form     *form
	name     *field
	category *field
	price    *field
	cost     *field
	photo    *field
	variants []variantRow
	editing  *model.Item
	deleting model.Record

	pickerOpen   bool
	pickerCursor int

	gen int
}

func newItemsScreen(caps Caps, feed, cats *datasync.Feed) *itemsScreen {
	return &itemsScreen{
		caps:    caps,
		feed:    feed,
		cats:    cats,
		eng:     table.New("Items", model.ItemHeaders),
		mode:    modeIdle,
		sortIdx: -1,
	}
}

func (s *itemsScreen) page() table.Page {
	return s.eng.Compute(s.feed.Records(), s.feed.Loading())
}

func (s *itemsScreen) openModal(editing *model.Item) {
	s.name = &field{label: "Name"}
	s.category = &field{label: "Category"}
	s.price = &field{label: "Price"}
	s.cost = &field{label: "Cost"}
	s.photo = &field{label: "Photo (path or URL)"}
	s.variants = nil
	if editing != nil {
		s.name.value = editing.Name
		s.category.value = editing.Category
		s.price.value = editing.Price
		s.cost.value = editing.Cost
		s.photo.value = editing.Photo
		for _, v := range editing.Vars {
			s.appendVariant(v)
		}
	}
	s.editing = editing
	s.rebuildForm()
	s.mode = modeModal
	s.pickerOpen = false
}

func (s *itemsScreen) appendVariant(v model.Variant) {
	n := strconv.Itoa(len(s.variants) + 1)
	s.variants = append(s.variants, variantRow{
		name:  &field{label: "Variant " + n + " name", value: v.Name},
		price: &field{label: "Variant " + n + " price", value: v.Price},
		cost:  &field{label: "Variant " + n + " cost", value: v.Cost},
	})
}

func (s *itemsScreen) rebuildForm() {
	fields := []*field{s.name, s.category, s.price, s.cost, s.photo}
	for _, v := range s.variants {
		fields = append(fields, v.name, v.price, v.cost)
	}
	focus := 0
	if s.form != nil && s.form.focus < len(fields) {
		focus = s.form.focus
	}
	s.form = newForm(fields...)
	s.form.focus = focus
}

func (s *itemsScreen) closeModal() {
	s.form = nil
	s.editing = nil
	s.variants = nil
	s.pickerOpen = false
	s.mode = modeIdle
}

// formVariants collects the non-empty variant rows.
func (s *itemsScreen) formVariants() []model.Variant {
	out := make([]model.Variant, 0, len(s.variants))
	for _, v := range s.variants {
		name := strings.TrimSpace(v.name.value)
		if name == "" {
			continue
		}
		out = append(out, model.Variant{
			Name:  name,
			Price: strings.TrimSpace(v.price.value),
			Cost:  strings.TrimSpace(v.cost.value),
		})
	}
	return out
}

// validate: name always required; price and cost only when the item
// has no variants (variants carry their own pricing).
func (s *itemsScreen) validate() bool {
	if strings.TrimSpace(s.name.value) == "" {
		s.name.err = "Name is required"
	}
	if len(s.formVariants()) == 0 {
		if strings.TrimSpace(s.price.value) == "" {
			s.price.err = "Price is required"
		}
		if strings.TrimSpace(s.cost.value) == "" {
			s.cost.err = "Cost is required"
		}
	}
	return !s.form.hasErrors()
}

func (s *itemsScreen) handleKey(a *App, m tea.KeyMsg) (bool, tea.Cmd) {
	switch s.mode {
	case modeModal:
		return true, s.handleModalKey(a, m)
	case modeConfirmDelete:
		return true, s.handleConfirmKey(a, m)
	case modeSearch:
		return true, s.handleSearchKey(m)
	case modeSubmitting:
		return true, nil
	}

	p := s.page()
	switch m.String() {
	case "/":
		s.mode = modeSearch
		return true, nil
	case "a":
		s.openModal(nil)
		return true, nil
	case "e":
		if rec := s.selected(p); rec != nil {
			it := rec.(model.Item)
			s.openModal(&it)
		}
		return true, nil
	case "d":
		if rec := s.selected(p); rec != nil {
			s.deleting = rec
			s.mode = modeConfirmDelete
		}
		return true, nil
	case "enter":
		s.eng.ToggleExpand(p, s.cursor)
		return true, nil
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return true, nil
	case "down", "j":
		if s.cursor < len(p.Rows)-1 {
			s.cursor++
		}
		return true, nil
	case "[":
		s.eng.PrevPage(p.Filtered)
		s.cursor = 0
		return true, nil
	case "]":
		s.eng.NextPage(p.Filtered)
		s.cursor = 0
		return true, nil
	case "+":
		s.eng.SetPageSize(nextPageSize(s.eng.PageSize(), 1))
		return true, nil
	case "-":
		s.eng.SetPageSize(nextPageSize(s.eng.PageSize(), -1))
		return true, nil
	case "s":
		s.cycleSort()
		return true, nil
	case "S":
		if col, _ := s.eng.Sort(); col != "" {
			s.eng.ToggleSort(col)
		}
		return true, nil
	}
	return false, nil
}

func (s *itemsScreen) selected(p table.Page) model.Record {
	if s.cursor < 0 || s.cursor >= len(p.Rows) {
		return nil
	}
	return p.Rows[s.cursor].Record
}

func (s *itemsScreen) cycleSort() {
	cols := sortableHeaders(model.ItemHeaders)
	s.sortIdx++
	if s.sortIdx >= len(cols) {
		s.sortIdx = -1
		s.eng.ClearSort()
		return
	}
	s.eng.ClearSort()
	s.eng.ToggleSort(cols[s.sortIdx])
}

func (s *itemsScreen) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc, tea.KeyEnter:
		s.mode = modeIdle
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		q := s.eng.Query()
		if q != "" {
			s.eng.SetQuery(trimLastRune(q))
			s.cursor = 0
		}
	case tea.KeySpace:
		s.eng.SetQuery(s.eng.Query() + " ")
		s.cursor = 0
	case tea.KeyRunes:
		s.eng.SetQuery(s.eng.Query() + string(m.Runes))
		s.cursor = 0
	}
	return nil
}

func (s *itemsScreen) handleConfirmKey(a *App, m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "y", "Y":
		rec := s.deleting
		s.deleting = nil
		s.mode = modeSubmitting
		return s.deleteCmd(a, rec.Key())
	case "n", "N", "esc":
		s.deleting = nil
		s.mode = modeIdle
	}
	return nil
}

func (s *itemsScreen) handleModalKey(a *App, m tea.KeyMsg) tea.Cmd {
	if s.pickerOpen {
		return s.handlePickerKey(m)
	}

	switch m.Type {
	case tea.KeyEsc:
		s.closeModal()
		return nil
	case tea.KeyTab, tea.KeyDown:
		s.form.next()
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		s.form.prev()
		return nil
	case tea.KeyEnter:
		s.form.clearErrors()
		if !s.validate() {
			return nil
		}
		s.mode = modeSubmitting
		if s.editing != nil {
			return s.updateCmd(a, *s.editing)
		}
		return s.createCmd(a)
	}

	switch m.String() {
	case "ctrl+a":
		s.appendVariant(model.Variant{})
		s.rebuildForm()
		return nil
	case "ctrl+d":
		if len(s.variants) > 0 {
			s.variants = s.variants[:len(s.variants)-1]
			s.rebuildForm()
		}
		return nil
	case "ctrl+p":
		if s.form.focused() == s.category {
			s.pickerOpen = true
			s.pickerCursor = 0
		}
		return nil
	}

	s.form.focused().handleKey(m)
	return nil
}

func (s *itemsScreen) handlePickerKey(m tea.KeyMsg) tea.Cmd {
	names := s.rankedCategoryNames()
	switch m.String() {
	case "esc", "ctrl+p":
		s.pickerOpen = false
	case "up", "k":
		if s.pickerCursor > 0 {
			s.pickerCursor--
		}
	case "down", "j":
		if s.pickerCursor < len(names)-1 {
			s.pickerCursor++
		}
	case "enter":
		if s.pickerCursor < len(names) {
			s.category.value = names[s.pickerCursor]
			s.category.err = ""
		}
		s.pickerOpen = false
	}
	return nil
}

func (s *itemsScreen) rankedCategoryNames() []string {
	recs := s.cats.Records()
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		if c, ok := r.(model.Category); ok {
			names = append(names, c.Name)
		}
	}
	return rankCategories(names, s.category.value)
}

// formItem assembles the item from the form. Pricing is normalized so
// an item with variants stores empty top-level price and cost.
func (s *itemsScreen) formItem() model.Item {
	item := model.Item{
		Name:     strings.TrimSpace(s.name.value),
		Category: strings.TrimSpace(s.category.value),
		Price:    strings.TrimSpace(s.price.value),
		Cost:     strings.TrimSpace(s.cost.value),
		Vars:     s.formVariants(),
	}
	item.NormalizePricing()
	return item
}

func (s *itemsScreen) createCmd(a *App) tea.Cmd {
	gen := s.gen
	item := s.formItem()
	photo := strings.TrimSpace(s.photo.value)
	return func() tea.Msg {
		url, err := resolvePhoto(a.ctx, a.caps, photo)
		if err != nil {
			return itemMutationMsg{gen: gen, kind: mutCreate, err: err}
		}
		key, err := a.caps.Store.Create(model.CollectionItems)
		if err != nil {
			return itemMutationMsg{gen: gen, kind: mutCreate, err: err}
		}
		item.ID = key
		item.Photo = url
		item.MerchantID = a.caps.Auth.CurrentUserID()
		item.CreatedAt = database.NowMillis()
		err = a.caps.Store.Write(model.CollectionItems, key, item.Fields())
		return itemMutationMsg{gen: gen, kind: mutCreate, err: err}
	}
}

func (s *itemsScreen) updateCmd(a *App, prev model.Item) tea.Cmd {
	gen := s.gen
	item := s.formItem()
	photo := strings.TrimSpace(s.photo.value)
	return func() tea.Msg {
		url, err := resolvePhoto(a.ctx, a.caps, photo)
		if err != nil {
			return itemMutationMsg{gen: gen, kind: mutUpdate, err: err}
		}
		item.ID = prev.ID
		item.Photo = url
		item.MerchantID = prev.MerchantID
		item.CreatedAt = prev.CreatedAt
		item.UpdatedAt = database.NowMillis()
		err = a.caps.Store.Write(model.CollectionItems, item.ID, item.Fields())
		return itemMutationMsg{gen: gen, kind: mutUpdate, err: err}
	}
}

func (s *itemsScreen) deleteCmd(a *App, key string) tea.Cmd {
	gen := s.gen
	return func() tea.Msg {
		err := a.caps.Store.Delete(model.CollectionItems, key)
		return itemMutationMsg{gen: gen, kind: mutDelete, err: err}
	}
}

func (s *itemsScreen) applyMutation(a *App, m itemMutationMsg) tea.Cmd {
	if m.gen != s.gen {
		return nil
	}
	s.closeModal()
	if m.err != nil {
		a.caps.Log.Error("item mutation failed",
			zap.String("kind", string(m.kind)), zap.Error(m.err))
		return a.showToast("Could not save item", false)
	}
	switch m.kind {
	case mutCreate:
		return a.showToast("Item added", true)
	case mutUpdate:
		return a.showToast("Item updated", true)
	default:
		return a.showToast("Item deleted", true)
	}
}

func (s *itemsScreen) reset() {
	s.gen++
	s.closeModal()
	s.deleting = nil
	s.cursor = 0
}

func (s *itemsScreen) view(a *App) string {
	p := s.page()
	if s.cursor >= len(p.Rows) && len(p.Rows) > 0 {
		s.cursor = len(p.Rows) - 1
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Items"))
	b.WriteString("\n")
	query := s.eng.Query()
	if s.mode == modeSearch {
		b.WriteString(styleFieldLabel.Render("Search: ") + query + "▌\n")
	} else if query != "" {
		b.WriteString(styleFieldLabel.Render("Search: ") + query + "\n")
	}
	b.WriteString("\n")
	b.WriteString(renderTable(s.eng, p, s.cursor))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("a add · e edit · d delete · enter variants · / search · s sort · [ ] page"))
	return b.String()
}

func (s *itemsScreen) overlay() string {
	switch s.mode {
	case modeModal:
		title := "Add item"
		if s.editing != nil {
			title = "Edit item"
		}
		body := s.form.render()
		if s.pickerOpen {
			body += "\n\n" + s.renderPicker()
		}
		return styleTitle.Render(title) + "\n\n" + body +
			"\n\n" + styleMuted.Render("enter save · esc cancel · ctrl+a/ctrl+d variant · ctrl+p categories")
	case modeConfirmDelete:
		name := ""
		if it, ok := s.deleting.(model.Item); ok {
			name = it.Name
		}
		return styleTitle.Render("Delete item") + "\n\n" +
			styleRow.Render("Delete \""+name+"\"? This cannot be undone.") +
			"\n\n" + styleMuted.Render("y confirm · n cancel")
	case modeSubmitting:
		return styleMuted.Render("Saving...")
	}
	return ""
}

func (s *itemsScreen) renderPicker() string {
	names := s.rankedCategoryNames()
	if len(names) == 0 {
		return styleMuted.Render("No categories yet")
	}
	lines := make([]string, 0, len(names))
	for i, n := range names {
		if i == s.pickerCursor {
			lines = append(lines, styleRowSelected.Render(n))
		} else {
			lines = append(lines, styleRow.Render(n))
		}
	}
	return strings.Join(lines, "\n")
}
