package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/ruralcare/internal/router"
)

// Screen renders one router view. Screens are rebuilt on every view change.
type Screen interface {
	Title(m *Model) string
	Scope() string
	Init(m *Model) tea.Cmd
	Update(m *Model, msg tea.Msg) tea.Cmd
	View(m *Model, width, height int) string
}

// textCapturer screens receive printable keys before the global bindings.
type textCapturer interface {
	Capturing() bool
}

func newScreen(m *Model, k screenKey) Screen {
	if !k.signedIn {
		return newLoginScreen(m)
	}
	switch k.view {
	case router.Dashboard:
		return &dashboardScreen{}
	case router.DoctorSelection:
		return newDoctorsScreen(m)
	case router.AppointmentScheduler:
		return newSchedulerScreen(m)
	case router.VideoCall:
		return newCallScreen(m)
	case router.HealthRecords:
		return newRecordsScreen(m)
	case router.EmergencyInfo:
		return &emergencyScreen{}
	case router.MedicineTracker:
		return newMedicineScreen(m)
	case router.PharmacyLocator:
		return newPharmacyScreen(m)
	case router.SymptomChecker:
		return newSymptomsScreen(m)
	case router.AdminDashboard:
		return newAdminScreen(m)
	}
	return &dashboardScreen{}
}

// searchBox is the "/" filter field shared by the list screens.
type searchBox struct {
	input   textinput.Model
	focused bool
}

func newSearchBox(placeholder string) searchBox {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return searchBox{input: ti}
}

func (s *searchBox) Focus() tea.Cmd {
	s.focused = true
	return s.input.Focus()
}

// Update feeds a key to the focused box. changed reports whether the query text moved.
func (s *searchBox) Update(m *Model, msg tea.KeyMsg) (cmd tea.Cmd, changed bool) {
	if m.keys.IsAction(msg, "done", scopeSearch) {
		s.focused = false
		s.input.Blur()
		return nil, false
	}
	before := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	return cmd, s.input.Value() != before
}

func (s searchBox) Value() string { return s.input.Value() }

func (s searchBox) View() string {
	if !s.focused && s.input.Value() == "" {
		return mutedStyle.Render("/ " + s.input.Placeholder)
	}
	return s.input.View()
}

// cycle returns the element after cur in xs, wrapping around.
func cycle[T comparable](xs []T, cur T) T {
	for i, x := range xs {
		if x == cur {
			return xs[(i+1)%len(xs)]
		}
	}
	return xs[0]
}
