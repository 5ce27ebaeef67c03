package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockdeck/stockdeck/internal/auth"
	"github.com/stockdeck/stockdeck/internal/helpers"
)

type signInDoneMsg struct{ err error }
type signUpDoneMsg struct{ err error }
type resetDoneMsg struct{ err error }

type signInScreen struct {
	form       *form
	email      *field
	password   *field
	providerErr string
	busy       bool
}

func newSignInScreen() *signInScreen {
	s := &signInScreen{
		email:    &field{label: "Email"},
		password: &field{label: "Password", secret: true},
	}
	s.form = newForm(s.email, s.password)
	return s
}

// validate runs the synchronous checks; no provider call happens while
// any field error is set.
func (s *signInScreen) validate() bool {
	if strings.TrimSpace(s.email.value) == "" {
		s.email.err = "Email is required"
	} else if !helpers.IsValidEmail(s.email.value) {
		s.email.err = "Enter a valid email address"
	}
	if s.password.value == "" {
		s.password.err = "Password is required"
	}
	return !s.form.hasErrors()
}

type signUpScreen struct {
	form     *form
	business *field
	phone    *field
	email    *field
	password *field
	providerErr string
	busy     bool
}

func newSignUpScreen() *signUpScreen {
	s := &signUpScreen{
		business: &field{label: "Business name"},
		phone:    &field{label: "Phone number"},
		email:    &field{label: "Email"},
		password: &field{label: "Password", secret: true},
	}
	s.form = newForm(s.business, s.phone, s.email, s.password)
	return s
}

func (s *signUpScreen) validate() bool {
	if strings.TrimSpace(s.business.value) == "" {
		s.business.err = "Business name is required"
	}
	if strings.TrimSpace(s.phone.value) == "" {
		s.phone.err = "Phone number is required"
	}
	if strings.TrimSpace(s.email.value) == "" {
		s.email.err = "Email is required"
	} else if !helpers.IsValidEmail(s.email.value) {
		s.email.err = "Enter a valid email address"
	}
	if s.password.value == "" {
		s.password.err = "Password is required"
	}
	return !s.form.hasErrors()
}

type forgotScreen struct {
	form  *form
	email *field
	providerErr string
	sent  bool
	busy  bool
}

func newForgotScreen() *forgotScreen {
	s := &forgotScreen{email: &field{label: "Email"}}
	s.form = newForm(s.email)
	return s
}

func (s *forgotScreen) validate() bool {
	if strings.TrimSpace(s.email.value) == "" {
		s.email.err = "Email is required"
	} else if !helpers.IsValidEmail(s.email.value) {
		s.email.err = "Enter a valid email address"
	}
	return !s.form.hasErrors()
}

func (a *App) updateAuthScreens(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case signInDoneMsg:
		a.signIn.busy = false
		if m.err != nil {
			a.signIn.providerErr = auth.Message(m.err)
			return a, nil
		}
		return a, func() tea.Msg {
			return authChangedMsg{uid: a.caps.Auth.CurrentUserID()}
		}

	case signUpDoneMsg:
		a.signUp.busy = false
		if m.err != nil {
			a.signUp.providerErr = auth.Message(m.err)
			return a, nil
		}
		return a, func() tea.Msg {
			return authChangedMsg{uid: a.caps.Auth.CurrentUserID()}
		}

	case resetDoneMsg:
		a.forgot.busy = false
		if m.err != nil {
			a.forgot.providerErr = auth.Message(m.err)
			return a, nil
		}
		a.forgot.sent = true
		return a, nil

	case tea.KeyMsg:
		return a.handleAuthKey(m)
	}
	return a, nil
}

func (a *App) handleAuthKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.view {
	case viewSignIn:
		s := a.signIn
		if s.busy {
			return a, nil
		}
		switch m.Type {
		case tea.KeyTab, tea.KeyDown:
			s.form.next()
		case tea.KeyShiftTab, tea.KeyUp:
			s.form.prev()
		case tea.KeyEnter:
			s.form.clearErrors()
			s.providerErr = ""
			if !s.validate() {
				return a, nil
			}
			s.busy = true
			email, password := s.email.value, s.password.value
			return a, func() tea.Msg {
				return signInDoneMsg{err: a.caps.Auth.SignIn(a.ctx, email, password)}
			}
		default:
			if !s.form.focused().handleKey(m) {
				switch m.String() {
				case "ctrl+u":
					a.view = viewSignUp
				case "ctrl+f":
					a.view = viewForgot
				}
			}
		}

	case viewSignUp:
		s := a.signUp
		if s.busy {
			return a, nil
		}
		switch m.Type {
		case tea.KeyTab, tea.KeyDown:
			s.form.next()
		case tea.KeyShiftTab, tea.KeyUp:
			s.form.prev()
		case tea.KeyEsc:
			a.view = viewSignIn
		case tea.KeyEnter:
			s.form.clearErrors()
			s.providerErr = ""
			if !s.validate() {
				return a, nil
			}
			s.busy = true
			email, password := s.email.value, s.password.value
			profile := auth.Profile{
				BusinessName: strings.TrimSpace(s.business.value),
				PhoneNumber:  strings.TrimSpace(s.phone.value),
			}
			return a, func() tea.Msg {
				return signUpDoneMsg{err: a.caps.Auth.SignUp(a.ctx, email, password, profile)}
			}
		default:
			s.form.focused().handleKey(m)
		}

	case viewForgot:
		s := a.forgot
		if s.busy {
			return a, nil
		}
		switch m.Type {
		case tea.KeyEsc:
			a.view = viewSignIn
		case tea.KeyEnter:
			s.form.clearErrors()
			s.providerErr = ""
			s.sent = false
			if !s.validate() {
				return a, nil
			}
			s.busy = true
			email := s.email.value
			return a, func() tea.Msg {
				return resetDoneMsg{err: a.caps.Auth.SendPasswordReset(a.ctx, email)}
			}
		default:
			s.form.focused().handleKey(m)
		}
	}
	return a, nil
}

func (a *App) viewAuth() string {
	var title, body, hint, providerErr string
	switch a.view {
	case viewSignUp:
		title = "Create your account"
		body = a.signUp.form.render()
		hint = "enter submit · esc back to sign in"
		providerErr = a.signUp.providerErr
		if a.signUp.busy {
			hint = "creating account..."
		}
	case viewForgot:
		title = "Reset your password"
		body = a.forgot.form.render()
		hint = "enter send reset email · esc back to sign in"
		providerErr = a.forgot.providerErr
		if a.forgot.sent {
			hint = styleToastOK.Render("Password reset email sent")
		} else if a.forgot.busy {
			hint = "sending..."
		}
	default:
		title = "Sign in to Stockdeck"
		body = a.signIn.form.render()
		hint = "enter submit · ctrl+u sign up · ctrl+f forgot password"
		providerErr = a.signIn.providerErr
		if a.signIn.busy {
			hint = "signing in..."
		}
	}

	lines := []string{styleTitle.Render(title), "", body}
	if providerErr != "" {
		lines = append(lines, "", styleFieldError.Render(providerErr))
	}
	lines = append(lines, "", styleMuted.Render(hint))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}
