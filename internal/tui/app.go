// Package tui is the terminal front end: auth screens, the sidebar
// shell, and the Items/Categories table screens.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/stockdeck/stockdeck/internal/auth"
	"github.com/stockdeck/stockdeck/internal/blob"
	"github.com/stockdeck/stockdeck/internal/datasync"
	"github.com/stockdeck/stockdeck/internal/prefs"
	"github.com/stockdeck/stockdeck/internal/store"
)

// Caps bundles the injected capabilities.
type Caps struct {
	Auth  auth.Service
	Store store.Store
	Blobs blob.Store
	Prefs *prefs.Prefs
	Log   *zap.Logger
}

type appView string

const (
	viewSignIn     appView = "signIn"
	viewSignUp     appView = "signUp"
	viewForgot     appView = "forgot"
	viewDashboard  appView = "dashboard"
	viewItems      appView = "items"
	viewCategories appView = "categories"
)

const (
	menuDashboard  = "Dashboard"
	menuItems      = "Items"
	menuCategories = "Categories"
)

// feedChangedMsg is sent from feed callbacks via program.Send.
type feedChangedMsg struct{}

// authChangedMsg carries the new owner id ("" = signed out).
type authChangedMsg struct{ uid string }

// App ties together screens.
type App struct {
	ctx        context.Context
	caps       Caps
	items      *datasync.Feed
	categories *datasync.Feed

	width  int
	height int

	view        appView
	sidebarOpen bool

	signIn *signInScreen
	signUp *signUpScreen
	forgot *forgotScreen
	itemsScreen      *itemsScreen
	categoriesScreen *categoriesScreen

	toast toast
}

func New(ctx context.Context, caps Caps, items, categories *datasync.Feed) *App {
	if caps.Log == nil {
		caps.Log = zap.NewNop()
	}
	a := &App{
		ctx:         ctx,
		caps:        caps,
		items:       items,
		categories:  categories,
		sidebarOpen: caps.Prefs.SidebarOpen(),
	}
	a.signIn = newSignInScreen()
	a.signUp = newSignUpScreen()
	a.forgot = newForgotScreen()
	a.itemsScreen = newItemsScreen(caps, items, categories)
	a.categoriesScreen = newCategoriesScreen(caps, categories)

	if caps.Auth.CurrentUserID() == "" {
		a.view = viewSignIn
	} else {
		a.view = viewForMenu(caps.Prefs.ActiveMenu())
	}
	return a
}

func viewForMenu(menu string) appView {
	switch menu {
	case menuItems:
		return viewItems
	case menuCategories:
		return viewCategories
	default:
		return viewDashboard
	}
}

func menuForView(v appView) string {
	switch v {
	case viewItems:
		return menuItems
	case viewCategories:
		return menuCategories
	default:
		return menuDashboard
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case feedChangedMsg:
		return a, nil

	case authChangedMsg:
		// Screen state never survives an identity change; bumping the
		// generation also drops in-flight completions.
		a.itemsScreen.reset()
		a.categoriesScreen.reset()
		if m.uid == "" {
			a.view = viewSignIn
			a.signIn = newSignInScreen()
		} else if !a.signedIn(a.view) {
			a.view = viewForMenu(a.caps.Prefs.ActiveMenu())
		}
		return a, nil

	case toastExpireMsg:
		if m.seq == a.toast.seq {
			a.toast = toast{}
		}
		return a, nil

	case signInDoneMsg, signUpDoneMsg, resetDoneMsg:
		return a.updateAuthScreens(msg)

	case itemMutationMsg:
		return a, a.itemsScreen.applyMutation(a, m)

	case categoryMutationMsg:
		return a, a.categoriesScreen.applyMutation(a, m)

	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) signedIn(v appView) bool {
	switch v {
	case viewSignIn, viewSignUp, viewForgot:
		return false
	}
	return true
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.signedIn(a.view) {
		return a.updateAuthScreens(m)
	}

	// Screens in a modal or input mode consume keys first.
	switch a.view {
	case viewItems:
		if handled, cmd := a.itemsScreen.handleKey(a, m); handled {
			return a, cmd
		}
	case viewCategories:
		if handled, cmd := a.categoriesScreen.handleKey(a, m); handled {
			return a, cmd
		}
	}

	switch {
	case key.Matches(m, keys.Quit):
		return a, tea.Quit
	case key.Matches(m, keys.Dashboard):
		a.setMenu(viewDashboard)
	case key.Matches(m, keys.Items):
		a.setMenu(viewItems)
	case key.Matches(m, keys.Categories):
		a.setMenu(viewCategories)
	case key.Matches(m, keys.Sidebar):
		a.sidebarOpen = !a.sidebarOpen
		a.caps.Prefs.SetSidebarOpen(a.sidebarOpen)
	case key.Matches(m, keys.Logout):
		return a, a.logoutCmd()
	}
	return a, nil
}

func (a *App) setMenu(v appView) {
	a.view = v
	a.caps.Prefs.SetActiveMenu(menuForView(v))
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.caps.Auth.SignOut(); err != nil {
			a.caps.Log.Error("sign out", zap.Error(err))
		}
		return authChangedMsg{uid: a.caps.Auth.CurrentUserID()}
	}
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	if !a.signedIn(a.view) {
		return a.viewAuth()
	}

	var body string
	switch a.view {
	case viewItems:
		body = a.itemsScreen.view(a)
	case viewCategories:
		body = a.categoriesScreen.view(a)
	default:
		body = a.viewDashboard()
	}

	main := body
	if a.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, a.viewSidebar(), " ", body)
	}
	if a.toast.text != "" {
		main = a.toast.render() + "\n" + main
	}

	// Modal overlays composite over the whole frame.
	switch a.view {
	case viewItems:
		if over := a.itemsScreen.overlay(); over != "" {
			return popup(main, over, a.width, a.height)
		}
	case viewCategories:
		if over := a.categoriesScreen.overlay(); over != "" {
			return popup(main, over, a.width, a.height)
		}
	}
	return main
}

func (a *App) viewSidebar() string {
	entries := []string{menuDashboard, menuItems, menuCategories, "Logout"}
	active := menuForView(a.view)
	lines := make([]string, 0, len(entries)+2)
	lines = append(lines, styleTitle.Render("Stockdeck"), "")
	for _, e := range entries {
		if e == active {
			lines = append(lines, styleSidebarActive.Render(e))
		} else {
			lines = append(lines, e)
		}
	}
	return styleSidebar.Render(strings.Join(lines, "\n"))
}

func (a *App) viewDashboard() string {
	itemCount := len(a.items.Records())
	catCount := len(a.categories.Records())

	card := func(title string, n int) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 3).
			Render(styleTitle.Render(title) + "\n" + styleRow.Render(strconv.Itoa(n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Items", itemCount), " ", card("Categories", catCount))
}
