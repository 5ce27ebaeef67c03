package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stockdeck/stockdeck/internal/database"
	"github.com/stockdeck/stockdeck/internal/datasync"
	"github.com/stockdeck/stockdeck/internal/model"
	"github.com/stockdeck/stockdeck/internal/table"
)

type screenMode string

const (
	modeIdle          screenMode = "idle"
	modeSearch        screenMode = "search"
	modeModal         screenMode = "modal"
	modeSubmitting    screenMode = "submitting"
	modeConfirmDelete screenMode = "confirmDelete"
)

type categoriesScreen struct {
	caps Caps
	feed *datasync.Feed
	eng  *table.Engine

	mode    screenMode
	cursor  int
	sortIdx int

	form        *form
	name        *field
	description *field
	photo       *field
	editing     *model.Category
	deleting    model.Record

	gen int
}

func newCategoriesScreen(caps Caps, feed *datasync.Feed) *categoriesScreen {
	return &categoriesScreen{
		caps:    caps,
		feed:    feed,
		eng:     table.New("Categories", model.CategoryHeaders),
		mode:    modeIdle,
		sortIdx: -1,
	}
}

func (s *categoriesScreen) page() table.Page {
	return s.eng.Compute(s.feed.Records(), s.feed.Loading())
}

func (s *categoriesScreen) openModal(editing *model.Category) {
	s.name = &field{label: "Name"}
	s.description = &field{label: "Description"}
	s.photo = &field{label: "Photo (path or URL)"}
	if editing != nil {
		s.name.value = editing.Name
		s.description.value = editing.Description
		s.photo.value = editing.Photo
	}
	s.editing = editing
	s.form = newForm(s.name, s.description, s.photo)
	s.mode = modeModal
}

func (s *categoriesScreen) closeModal() {
	s.form = nil
	s.editing = nil
	s.mode = modeIdle
}

func (s *categoriesScreen) validate() bool {
	if strings.TrimSpace(s.name.value) == "" {
		s.name.err = "Name is required"
	}
	if strings.TrimSpace(s.description.value) == "" {
		s.description.err = "Description is required"
	}
	return !s.form.hasErrors()
}

// handleKey consumes screen-scoped keys; unconsumed keys fall through
// to the shell.
func (s *categoriesScreen) handleKey(a *App, m tea.KeyMsg) (bool, tea.Cmd) {
	switch s.mode {
	case modeModal:
		return true, s.handleModalKey(a, m)
	case modeConfirmDelete:
		return true, s.handleConfirmKey(a, m)
	case modeSearch:
		return true, s.handleSearchKey(m)
	case modeSubmitting:
		// Keys are ignored while a write is in flight.
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
			c := rec.(model.Category)
			s.openModal(&c)
		}
		return true, nil
	case "d":
		if rec := s.selected(p); rec != nil {
			s.deleting = rec
			s.mode = modeConfirmDelete
		}
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

func (s *categoriesScreen) selected(p table.Page) model.Record {
	if s.cursor < 0 || s.cursor >= len(p.Rows) {
		return nil
	}
	return p.Rows[s.cursor].Record
}

func (s *categoriesScreen) cycleSort() {
	cols := sortableHeaders(model.CategoryHeaders)
	s.sortIdx++
	if s.sortIdx >= len(cols) {
		s.sortIdx = -1
		s.eng.ClearSort()
		return
	}
	s.eng.ClearSort()
	s.eng.ToggleSort(cols[s.sortIdx])
}

func (s *categoriesScreen) handleSearchKey(m tea.KeyMsg) tea.Cmd {
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

func (s *categoriesScreen) handleConfirmKey(a *App, m tea.KeyMsg) tea.Cmd {
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

func (s *categoriesScreen) handleModalKey(a *App, m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		s.closeModal()
	case tea.KeyTab, tea.KeyDown:
		s.form.next()
	case tea.KeyShiftTab, tea.KeyUp:
		s.form.prev()
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
	default:
		s.form.focused().handleKey(m)
	}
	return nil
}

func (s *categoriesScreen) createCmd(a *App) tea.Cmd {
	gen := s.gen
	name := strings.TrimSpace(s.name.value)
	description := strings.TrimSpace(s.description.value)
	photo := strings.TrimSpace(s.photo.value)
	return func() tea.Msg {
		url, err := resolvePhoto(a.ctx, a.caps, photo)
		if err != nil {
			return categoryMutationMsg{gen: gen, kind: mutCreate, err: err}
		}
		key, err := a.caps.Store.Create(model.CollectionCategories)
		if err != nil {
			return categoryMutationMsg{gen: gen, kind: mutCreate, err: err}
		}
		cat := model.Category{
			ID:          key,
			Name:        name,
			Description: description,
			Photo:       url,
			MerchantID:  a.caps.Auth.CurrentUserID(),
			CreatedAt:   database.NowMillis(),
		}
		err = a.caps.Store.Write(model.CollectionCategories, key, cat.Fields())
		return categoryMutationMsg{gen: gen, kind: mutCreate, err: err}
	}
}

func (s *categoriesScreen) updateCmd(a *App, prev model.Category) tea.Cmd {
	gen := s.gen
	name := strings.TrimSpace(s.name.value)
	description := strings.TrimSpace(s.description.value)
	photo := strings.TrimSpace(s.photo.value)
	return func() tea.Msg {
		url, err := resolvePhoto(a.ctx, a.caps, photo)
		if err != nil {
			return categoryMutationMsg{gen: gen, kind: mutUpdate, err: err}
		}
		cat := prev
		cat.Name = name
		cat.Description = description
		cat.Photo = url
		cat.UpdatedAt = database.NowMillis()
		err = a.caps.Store.Write(model.CollectionCategories, cat.ID, cat.Fields())
		return categoryMutationMsg{gen: gen, kind: mutUpdate, err: err}
	}
}

func (s *categoriesScreen) deleteCmd(a *App, key string) tea.Cmd {
	gen := s.gen
	return func() tea.Msg {
		err := a.caps.Store.Delete(model.CollectionCategories, key)
		return categoryMutationMsg{gen: gen, kind: mutDelete, err: err}
	}
}

// applyMutation finishes an async operation. Completions from a stale
// generation (screen reset since dispatch) are dropped.
func (s *categoriesScreen) applyMutation(a *App, m categoryMutationMsg) tea.Cmd {
	if m.gen != s.gen {
		return nil
	}
	s.closeModal()
	if m.err != nil {
		a.caps.Log.Error("category mutation failed",
			zap.String("kind", string(m.kind)), zap.Error(m.err))
		return a.showToast("Could not save category", false)
	}
	switch m.kind {
	case mutCreate:
		return a.showToast("Category added", true)
	case mutUpdate:
		return a.showToast("Category updated", true)
	default:
		return a.showToast("Category deleted", true)
	}
}

// reset invalidates in-flight completions, e.g. on sign-out.
func (s *categoriesScreen) reset() {
	s.gen++
	s.closeModal()
	s.deleting = nil
	s.cursor = 0
}

func (s *categoriesScreen) view(a *App) string {
	p := s.page()
	if s.cursor >= len(p.Rows) && len(p.Rows) > 0 {
		s.cursor = len(p.Rows) - 1
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Categories"))
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
	b.WriteString(styleMuted.Render("a add · e edit · d delete · / search · s sort · [ ] page"))
	return b.String()
}

// overlay returns the modal or confirmation card, empty when none.
func (s *categoriesScreen) overlay() string {
	switch s.mode {
	case modeModal:
		title := "Add category"
		if s.editing != nil {
			title = "Edit category"
		}
		return styleTitle.Render(title) + "\n\n" + s.form.render() +
			"\n\n" + styleMuted.Render("enter save · esc cancel")
	case modeConfirmDelete:
		name := ""
		if c, ok := s.deleting.(model.Category); ok {
			name = c.Name
		}
		return styleTitle.Render("Delete category") + "\n\n" +
			styleRow.Render("Delete \""+name+"\"? This cannot be undone.") +
			"\n\n" + styleMuted.Render("y confirm · n cancel")
	case modeSubmitting:
		return styleMuted.Render("Saving...")
	}
	return ""
}

func nextPageSize(current, dir int) int {
	for i, s := range table.PageSizes {
		if s == current {
			j := i + dir
			if j < 0 || j >= len(table.PageSizes) {
				return current
			}
			return table.PageSizes[j]
		}
	}
	return table.DefaultPageSize
}
