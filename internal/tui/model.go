// Package tui is the terminal front end. A single Model hosts the router and swaps in the
// screen for the active view; every screen change bumps a generation so timers and
// background work started by the old screen are dropped.
package tui

import (
	"context"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/i18n"
	"github.com/jask/ruralcare/internal/router"
	"github.com/jask/ruralcare/internal/service"
	"github.com/jask/ruralcare/internal/session"
)

// Catalog is the read side the screens load from.
type Catalog interface {
	Doctors(ctx context.Context) ([]care.Doctor, error)
	Pharmacies(ctx context.Context) ([]care.Pharmacy, error)
	Medicines(ctx context.Context) ([]care.Medicine, error)
	Stock(ctx context.Context, medicineID string) ([]care.Stock, error)
	Records(ctx context.Context) ([]care.HealthRecord, error)
	SyncRecords(ctx context.Context) (int64, error)
	Emergency(ctx context.Context) (care.EmergencyProfile, error)
	Overview(ctx context.Context) (care.AdminOverview, error)
}

type Booker interface {
	Book(ctx context.Context, req care.AppointmentRequest, patientID string) (care.Appointment, error)
	Upcoming(ctx context.Context, patientID string) ([]care.Appointment, error)
}

type LanguageStore interface {
	SaveLanguage(ctx context.Context, code string) error
}

type Deps struct {
	Auth            service.AuthService
	Analyzer        service.SymptomAnalyzer
	Booking         Booker
	Catalog         Catalog
	Languages       LanguageStore
	Logger          zerolog.Logger
	Now             func() time.Time
	Rand            *rand.Rand
	PatientName     string
	QualityInterval time.Duration
}

type screenKey struct {
	signedIn bool
	view     router.View
}

type Model struct {
	ctx       context.Context
	deps      Deps
	router    *router.Router
	keys      *KeyRegistry
	catalog   *i18n.Catalog
	lang      i18n.Language
	width     int
	height    int
	screen    Screen
	shown     screenKey
	gen       int
	screenCtx context.Context
	cancel    context.CancelFunc
	status    string
	statusErr bool
	quitting  bool
}

func New(ctx context.Context, deps Deps, catalog *i18n.Catalog, lang i18n.Language) *Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.QualityInterval <= 0 {
		deps.QualityInterval = 10 * time.Second
	}
	if !lang.Valid() {
		lang = i18n.English
	}
	m := &Model{
		ctx:     ctx,
		deps:    deps,
		router:  router.New(),
		keys:    NewKeyRegistry(DefaultKeyBindings()),
		catalog: catalog,
		lang:    lang,
		width:   100,
		height:  32,
	}
	log := deps.Logger
	m.router.OnChange = func(from, to router.State) {
		log.Debug().
			Str("from", from.View.String()).
			Str("to", to.View.String()).
			Str("role", to.Session.Role.String()).
			Msg("navigate")
	}
	m.buildScreen()
	return m
}

// Restore signs in a user remembered from an earlier run. Call it before the program starts.
func (m *Model) Restore(u session.User) error {
	s, err := session.Start(u)
	if err != nil {
		return err
	}
	if _, err := m.router.Login(s); err != nil {
		return err
	}
	m.buildScreen()
	return nil
}

func (m *Model) Init() tea.Cmd {
	return m.screen.Init(m)
}

func (m *Model) T(key string) string { return m.catalog.T(m.lang, key) }

func (m *Model) Router() *router.Router { return m.router }

func (m *Model) Language() i18n.Language { return m.lang }

func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) SetError(err error) {
	if err == nil {
		m.status = ""
		m.statusErr = false
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) ActiveScope() string {
	if m.screen == nil {
		return "app"
	}
	return m.screen.Scope()
}

// buildScreen tears down the current screen and constructs the one for the router's state.
func (m *Model) buildScreen() {
	if m.cancel != nil {
		m.cancel()
	}
	st := m.router.State()
	m.shown = screenKey{signedIn: st.Session.SignedIn(), view: st.View}
	m.gen++
	m.screenCtx, m.cancel = context.WithCancel(m.ctx)
	m.screen = newScreen(m, m.shown)
}

// syncScreen rebuilds the screen if the router moved and returns the new screen's init command.
func (m *Model) syncScreen() tea.Cmd {
	st := m.router.State()
	if (screenKey{signedIn: st.Session.SignedIn(), view: st.View}) == m.shown {
		return nil
	}
	m.buildScreen()
	return m.screen.Init(m)
}

// apply is the common tail of every router transition.
func (m *Model) apply(_ router.State, err error) tea.Cmd {
	if err != nil {
		m.SetError(err)
		return nil
	}
	m.SetStatus("")
	return m.syncScreen()
}

func (m *Model) back() tea.Cmd {
	m.router.Back()
	m.SetStatus("")
	return m.syncScreen()
}

func (m *Model) logout() tea.Cmd {
	m.router.Logout()
	m.SetStatus(m.T("common.logout"))
	auth, ctx := m.deps.Auth, m.ctx
	return tea.Batch(m.syncScreen(), func() tea.Msg {
		if auth == nil {
			return nil
		}
		return errStatus(auth.Logout(ctx))
	})
}

// setLanguage switches the UI language and persists it.
func (m *Model) setLanguage(l i18n.Language) tea.Cmd {
	m.lang = l
	store, ctx, log := m.deps.Languages, m.ctx, m.deps.Logger
	return func() tea.Msg {
		if store == nil {
			return nil
		}
		if err := store.SaveLanguage(ctx, string(l)); err != nil {
			log.Error().Err(err).Msg("save language")
			return errStatus(err)
		}
		return nil
	}
}

// run executes fn off the event loop under the current screen's context.
func (m *Model) run(fn func(ctx context.Context, s stamp) tea.Msg) tea.Cmd {
	ctx, s := m.screenCtx, stamp{gen: m.gen}
	return func() tea.Msg { return fn(ctx, s) }
}

func (m *Model) load(key string, fn func(ctx context.Context) (any, error)) tea.Cmd {
	return m.run(func(ctx context.Context, s stamp) tea.Msg {
		data, err := fn(ctx)
		return dataMsg{stamp: s, key: key, data: data, err: err}
	})
}

// after delivers msg(stamp) once d has elapsed, unless the screen has changed by then.
func (m *Model) after(d time.Duration, msg func(stamp) tea.Msg) tea.Cmd {
	s := stamp{gen: m.gen}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg(s) })
}

func (m *Model) patientID() string {
	if u := m.router.State().Session.User; u != nil {
		return u.ID
	}
	return ""
}

func (m *Model) patientName() string {
	if u := m.router.State().Session.User; u != nil && u.Name != "" {
		return u.Name
	}
	return m.deps.PatientName
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sm, ok := msg.(stamped); ok && sm.screenGen() != m.gen {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		scope := m.ActiveScope()
		if c, ok := m.screen.(textCapturer); !ok || !c.Capturing() {
			switch {
			case m.keys.IsAction(msg, "quit", scope):
				m.quitting = true
				return m, tea.Quit
			case m.keys.IsAction(msg, "logout", scope):
				return m, m.logout()
			case m.keys.IsAction(msg, "back", scope):
				return m, m.back()
			}
		} else if m.keys.IsAction(msg, "logout", scope) {
			return m, m.logout()
		}
	}
	return m, m.screen.Update(m, msg)
}

func (m *Model) View() string {
	if m.quitting {
		return "Goodbye\n"
	}
	header := renderHeader(m)
	status := renderStatusBar(m)
	footer := renderFooter(m)
	bodyHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))
	var body string
	if bodyHeight > 0 {
		body = m.screen.View(m, max(1, m.width-2), bodyHeight)
		if m.lang.IsRTL() {
			body = lipgloss.NewStyle().Width(max(1, m.width-2)).Align(lipgloss.Right).Render(body)
		}
	}
	body = fitHeight(body, bodyHeight)
	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, m.height))
	return appStyle.Width(max(1, m.width)).MaxWidth(max(1, m.width)).Render(view)
}
