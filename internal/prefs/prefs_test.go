package prefs

import "testing"

func TestDefaultsWhenFileAbsent(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := p.ActiveMenu(); got != "Dashboard" {
		t.Fatalf("ActiveMenu = %q", got)
	}
	if !p.SidebarOpen() {
		t.Fatal("sidebar should default open")
	}
	if p.SessionToken() != "" {
		t.Fatal("session token should default empty")
	}
}

func TestSettersPersistAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p.SetActiveMenu("Inventory")
	p.SetSidebarOpen(false)
	p.SetSessionToken("tok-123")

	q, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if q.ActiveMenu() != "Inventory" {
		t.Fatalf("ActiveMenu = %q", q.ActiveMenu())
	}
	if q.SidebarOpen() {
		t.Fatal("sidebar flag not persisted")
	}
	if q.SessionToken() != "tok-123" {
		t.Fatalf("SessionToken = %q", q.SessionToken())
	}
}

func TestClearSessionResetsMenuAndToken(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p.SetActiveMenu("Inventory")
	p.SetSessionToken("tok-123")
	p.ClearSession()

	if p.SessionToken() != "" {
		t.Fatal("token survived ClearSession")
	}
	if p.ActiveMenu() != "Dashboard" {
		t.Fatalf("ActiveMenu = %q after ClearSession", p.ActiveMenu())
	}

	q, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if q.SessionToken() != "" {
		t.Fatal("cleared token persisted")
	}
}
