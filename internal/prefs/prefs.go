// Package prefs persists client-side view preferences: the active
// sidebar menu label, the sidebar collapsed flag and the session
// token. A Prefs value is injected into whatever needs it; nothing
// reads an ambient global.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "prefs.json"

const defaultActiveMenu = "Dashboard"

type prefData struct {
	ActiveMenu   string `json:"activeMenu"`
	SidebarOpen  bool   `json:"sidebarOpen"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// Prefs is a small key-value preference store backed by one JSON file.
// All setters persist immediately; load failures fall back to
// defaults so a corrupt file never blocks startup.
type Prefs struct {
	path string

	mu   sync.Mutex
	data prefData
}

// Load opens (or initializes) the preference file under dir.
func Load(dir string) (*Prefs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	p := &Prefs{
		path: filepath.Join(dir, prefsFile),
		data: prefData{ActiveMenu: defaultActiveMenu, SidebarOpen: true},
	}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	var data prefData
	if err := json.Unmarshal(raw, &data); err == nil {
		if data.ActiveMenu == "" {
			data.ActiveMenu = defaultActiveMenu
		}
		p.data = data
	}
	return p, nil
}

func (p *Prefs) ActiveMenu() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.ActiveMenu
}

func (p *Prefs) SetActiveMenu(label string) {
	p.mu.Lock()
	p.data.ActiveMenu = label
	p.saveLocked()
	p.mu.Unlock()
}

func (p *Prefs) SidebarOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.SidebarOpen
}

func (p *Prefs) SetSidebarOpen(open bool) {
	p.mu.Lock()
	p.data.SidebarOpen = open
	p.saveLocked()
	p.mu.Unlock()
}

func (p *Prefs) SessionToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.SessionToken
}

func (p *Prefs) SetSessionToken(token string) {
	p.mu.Lock()
	p.data.SessionToken = token
	p.saveLocked()
	p.mu.Unlock()
}

// ClearSession drops the session token and resets the active menu,
// matching logout behavior.
func (p *Prefs) ClearSession() {
	p.mu.Lock()
	p.data.SessionToken = ""
	p.data.ActiveMenu = defaultActiveMenu
	p.saveLocked()
	p.mu.Unlock()
}

func (p *Prefs) saveLocked() {
	data, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		return
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, p.path)
}
