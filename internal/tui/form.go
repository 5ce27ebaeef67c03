package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// field is a single-line text input. Input handling follows the raw
// rune/backspace pattern used across the app rather than a full
// textinput component.
type field struct {
	label  string
	value  string
	err    string
	secret bool
}

// handleKey edits the field value. Returns false for keys the field
// does not consume.
func (f *field) handleKey(m tea.KeyMsg) bool {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(f.value) > 0 {
			f.value = trimLastRune(f.value)
		}
	case tea.KeySpace:
		f.value += " "
	case tea.KeyRunes:
		f.value += string(m.Runes)
	default:
		return false
	}
	f.err = ""
	return true
}

func (f field) display() string {
	if f.secret {
		return strings.Repeat("*", len([]rune(f.value)))
	}
	return f.value
}

func trimLastRune(s string) string {
	r := []rune(s)
	return string(r[:len(r)-1])
}

// form is an ordered set of fields with one focused at a time.
type form struct {
	fields []*field
	focus  int
}

func newForm(fields ...*field) *form {
	return &form{fields: fields}
}

func (fm *form) focused() *field { return fm.fields[fm.focus] }

func (fm *form) next() {
	fm.focus = (fm.focus + 1) % len(fm.fields)
}

func (fm *form) prev() {
	fm.focus = (fm.focus - 1 + len(fm.fields)) % len(fm.fields)
}

func (fm *form) clearErrors() {
	for _, f := range fm.fields {
		f.err = ""
	}
}

func (fm *form) hasErrors() bool {
	for _, f := range fm.fields {
		if f.err != "" {
			return true
		}
	}
	return false
}

func (fm *form) render() string {
	lines := make([]string, 0, len(fm.fields)*2)
	for i, f := range fm.fields {
		cursor := "  "
		valueStyle := styleRow
		if i == fm.focus {
			cursor = lipgloss.NewStyle().Foreground(colorFocus).Render("> ")
			valueStyle = styleRow.Foreground(colorFocus)
		}
		lines = append(lines, cursor+styleFieldLabel.Render(f.label+": ")+valueStyle.Render(f.display()))
		if f.err != "" {
			lines = append(lines, "    "+styleFieldError.Render(f.err))
		}
	}
	return strings.Join(lines, "\n")
}
