package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration matches the short-lived notification banners the
// screens show after every create/update/delete.
const toastDuration = 1500 * time.Millisecond

type toast struct {
	text string
	ok   bool
	seq  int
}

type toastExpireMsg struct{ seq int }

func (t toast) render() string {
	if t.ok {
		return styleToastOK.Render(t.text)
	}
	return styleToastFail.Render(t.text)
}

// showToast replaces the current banner and schedules its dismissal.
// The sequence number keeps an old timer from clearing a newer banner.
func (a *App) showToast(text string, ok bool) tea.Cmd {
	a.toast = toast{text: text, ok: ok, seq: a.toast.seq + 1}
	seq := a.toast.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}
