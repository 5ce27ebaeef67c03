package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockdeck/stockdeck/internal/datasync"
)

// BindFeeds forwards feed change notifications into the program's
// event loop so snapshot deliveries trigger a re-render.
func BindFeeds(p *tea.Program, feeds ...*datasync.Feed) {
	for _, f := range feeds {
		f.OnChange(func() { p.Send(feedChangedMsg{}) })
	}
}
