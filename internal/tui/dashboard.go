package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/router"
)

type tile struct {
	action router.QuickAction
	title  string
	desc   string
	hotkey string
}

var tiles = []tile{
	{router.ActionVideoCall, "dashboard.videoCall", "dashboard.connectWithDoctor", "tile-video"},
	{router.ActionAudioCall, "dashboard.audioCall", "dashboard.voiceConsultation", "tile-audio"},
	{router.ActionSymptomChecker, "dashboard.aiChecker", "dashboard.checkSymptoms", "tile-symptoms"},
	{router.ActionMedicineTracker, "dashboard.medicines", "dashboard.findAvailability", "tile-medicine"},
	{router.ActionHealthRecords, "dashboard.records", "dashboard.viewRecords", "tile-records"},
}

type dashboardScreen struct {
	cursor   int
	upcoming []care.Appointment
}

func (s *dashboardScreen) Title(m *Model) string { return m.T("dashboard.welcome") }
func (s *dashboardScreen) Scope() string         { return scopeDashboard }

func (s *dashboardScreen) Init(m *Model) tea.Cmd {
	booking, id := m.deps.Booking, m.patientID()
	if booking == nil {
		return nil
	}
	return m.load("upcoming", func(ctx context.Context) (any, error) {
		return booking.Upcoming(ctx, id)
	})
}

func (s *dashboardScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.upcoming, _ = msg.data.([]care.Appointment)
	case tea.KeyMsg:
		scope := s.Scope()
		switch {
		case m.keys.IsAction(msg, "down", scope):
			s.cursor = clamp(s.cursor+1, 0, len(tiles)-1)
		case m.keys.IsAction(msg, "up", scope):
			s.cursor = clamp(s.cursor-1, 0, len(tiles)-1)
		case m.keys.IsAction(msg, "select", scope):
			return m.apply(m.router.QuickAction(tiles[s.cursor].action))
		default:
			for _, t := range tiles {
				if m.keys.IsAction(msg, t.hotkey, scope) {
					return m.apply(m.router.QuickAction(t.action))
				}
			}
		}
	}
	return nil
}

func (s *dashboardScreen) View(m *Model, width, height int) string {
	var who strings.Builder
	name := m.patientName()
	who.WriteString(titleStyle.Render(name))
	if u := m.router.State().Session.User; u != nil && u.Village != "" {
		who.WriteString(mutedStyle.Render(fmt.Sprintf("  %s: %s, Punjab", m.T("dashboard.village"), u.Village)))
	}
	who.WriteString("  " + okStyle.Render("● "+m.T("dashboard.online")))

	items := make([]string, len(tiles))
	for i, t := range tiles {
		items[i] = fmt.Sprintf("%-18s %s", m.T(t.title), mutedStyle.Render(m.T(t.desc)))
	}
	half := max(20, width/2)
	actions := box("", cursorLines(items, s.cursor, 0), half, true)

	health := fmt.Sprintf("%s  %s 120/80 mmHg\n%s  %s 98.6°F (37°C)",
		okStyle.Render(m.T("dashboard.normal")), m.T("dashboard.bloodPressure"),
		okStyle.Render(m.T("dashboard.normal")), m.T("dashboard.temperature"))
	status := box(m.T("dashboard.healthStatus"), health, max(20, width-half), false)

	var appts string
	if len(s.upcoming) == 0 {
		appts = mutedStyle.Render(m.T("dashboard.none"))
	} else {
		lines := make([]string, 0, len(s.upcoming))
		for _, a := range s.upcoming {
			lines = append(lines, fmt.Sprintf("%s %s  %s  %s (%s)",
				a.Date.Format("Mon 2 Jan"), a.Time, a.DoctorName, a.CallType, a.Urgency))
		}
		appts = strings.Join(lines, "\n")
	}
	upcoming := box(m.T("dashboard.upcoming"), appts, width, false)

	return lipgloss.JoinVertical(lipgloss.Left,
		who.String(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, actions, status),
		upcoming,
	)
}
