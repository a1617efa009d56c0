package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/router"
	"github.com/jask/ruralcare/internal/session"
)

type loginMsg struct {
	stamp
	user session.User
	err  error
}

var loginRoles = []session.Role{session.Patient, session.Doctor, session.Admin}

// formMessages maps the form's validation text onto translation keys.
var formMessages = map[string]string{
	"Phone number is required":                     "auth.phoneRequired",
	"Password is required":                         "auth.passwordRequired",
	"Please enter a valid phone number":            "auth.phoneInvalid",
	"Login failed. Please check your credentials.": "auth.failed",
}

type loginScreen struct {
	form     session.LoginForm
	role     session.Role
	phone    textinput.Model
	password textinput.Model
	focus    int
	spin     spinner.Model
}

func newLoginScreen(m *Model) *loginScreen {
	phone := textinput.New()
	phone.CharLimit = 15
	password := textinput.New()
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 64
	s := &loginScreen{
		role:     session.Patient,
		phone:    phone,
		password: password,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.localize(m)
	return s
}

func (s *loginScreen) localize(m *Model) {
	s.phone.Placeholder = m.T("auth.phoneNumber")
	s.password.Placeholder = m.T("auth.password")
}

func (s *loginScreen) Title(m *Model) string { return m.T("auth.title") }
func (s *loginScreen) Scope() string         { return scopeLogin }
func (s *loginScreen) Capturing() bool       { return true }

func (s *loginScreen) Init(m *Model) tea.Cmd {
	s.focus = 0
	s.password.Blur()
	return s.phone.Focus()
}

func (s *loginScreen) setFocus(i int) tea.Cmd {
	s.focus = (i + 2) % 2
	if s.focus == 0 {
		s.password.Blur()
		return s.phone.Focus()
	}
	s.phone.Blur()
	return s.password.Focus()
}

func (s *loginScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginMsg:
		return s.finish(m, msg)
	case spinner.TickMsg:
		if !s.form.Loading {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		if s.form.Loading {
			return nil
		}
		switch {
		case m.keys.IsAction(msg, "submit", scopeLogin):
			return s.submit(m)
		case m.keys.IsAction(msg, "next-field", scopeLogin):
			return s.setFocus(s.focus + 1)
		case m.keys.IsAction(msg, "prev-field", scopeLogin):
			return s.setFocus(s.focus - 1)
		case m.keys.IsAction(msg, "cycle-role", scopeLogin):
			s.role = nextRole(s.role)
			s.form.Error = ""
			return nil
		case m.keys.IsAction(msg, "cycle-language", scopeLogin):
			cmd := m.setLanguage(m.lang.Next())
			s.localize(m)
			return cmd
		}
		var cmd tea.Cmd
		if s.focus == 0 {
			s.phone, cmd = s.phone.Update(msg)
			if s.phone.Value() != s.form.Phone {
				s.form.SetPhone(s.phone.Value())
			}
		} else {
			s.password, cmd = s.password.Update(msg)
			if s.password.Value() != s.form.Password {
				s.form.SetPassword(s.password.Value())
			}
		}
		return cmd
	}
	return nil
}

func nextRole(r session.Role) session.Role {
	for i, x := range loginRoles {
		if x == r {
			return loginRoles[(i+1)%len(loginRoles)]
		}
	}
	return session.Patient
}

func (s *loginScreen) submit(m *Model) tea.Cmd {
	creds, ok := s.form.Submit()
	if !ok {
		return nil
	}
	auth, role := m.deps.Auth, s.role
	return tea.Batch(s.spin.Tick, m.run(func(ctx context.Context, st stamp) tea.Msg {
		if auth == nil {
			return loginMsg{stamp: st, err: errors.New("auth not configured")}
		}
		u, err := auth.Login(ctx, creds, role)
		return loginMsg{stamp: st, user: u, err: err}
	}))
}

func (s *loginScreen) finish(m *Model, msg loginMsg) tea.Cmd {
	var verr *session.ValidationError
	switch {
	case errors.As(msg.err, &verr):
		s.form.Loading = false
		s.form.Error = verr.Message
		return nil
	case msg.err != nil:
		m.deps.Logger.Warn().Err(msg.err).Msg("login failed")
		s.form.Fail()
		return nil
	}
	sess, err := session.Start(msg.user)
	if err == nil {
		_, err = m.router.Login(sess)
	}
	if errors.Is(err, router.ErrNoDoctorPortal) {
		s.form.Loading = false
		s.form.Error = m.T("auth.doctorPortal")
		auth, ctx := m.deps.Auth, m.ctx
		return func() tea.Msg { return errStatus(auth.Logout(ctx)) }
	}
	if err != nil {
		s.form.Fail()
		return nil
	}
	s.form.Succeed()
	m.SetStatus(m.T("dashboard.welcome") + ", " + msg.user.Name)
	return m.syncScreen()
}

func (s *loginScreen) View(m *Model, width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.T("app.title")) + "\n")
	b.WriteString(mutedStyle.Render(m.T("app.subtitle")) + "\n\n")

	tabs := make([]string, 0, len(loginRoles))
	for _, r := range loginRoles {
		label := m.T("auth." + r.String())
		if r == s.role {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	b.WriteString(m.T("auth.phoneNumber") + "\n" + s.phone.View() + "\n\n")
	b.WriteString(m.T("auth.password") + "\n" + s.password.View() + "\n\n")

	if s.form.Error != "" {
		text := s.form.Error
		if key, ok := formMessages[text]; ok {
			text = m.T(key)
		}
		b.WriteString(errStyle.Render(text) + "\n\n")
	}
	if s.form.Loading {
		b.WriteString(s.spin.View() + " " + m.T("auth.signingIn") + "\n")
	} else {
		b.WriteString(cursorStyle.Render(" "+m.T("auth.signIn")+" ") + "  " + mutedStyle.Render(m.T("auth.forgotPassword")) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render(m.T("auth.language")+": "+m.lang.Name()))
	return box("", b.String(), min(width, 60), true)
}
