package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
)

const barGlyph = "█"

type adminScreen struct {
	overview care.AdminOverview
	villages []care.VillageStat
	search   searchBox
	loaded   bool
}

func newAdminScreen(m *Model) *adminScreen {
	return &adminScreen{search: newSearchBox(m.T("admin.search"))}
}

func (s *adminScreen) Title(m *Model) string { return m.T("admin.title") }

func (s *adminScreen) Scope() string {
	if s.search.focused {
		return scopeSearch
	}
	return scopeAdmin
}

func (s *adminScreen) Capturing() bool { return s.search.focused }

func (s *adminScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("overview", func(ctx context.Context) (any, error) { return cat.Overview(ctx) })
}

func (s *adminScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.overview, _ = msg.data.(care.AdminOverview)
		s.loaded = true
		s.villages = care.FilterVillages(s.overview.Villages, s.search.Value())
	case tea.KeyMsg:
		if s.search.focused {
			cmd, changed := s.search.Update(m, msg)
			if changed {
				s.villages = care.FilterVillages(s.overview.Villages, s.search.Value())
			}
			return cmd
		}
		if m.keys.IsAction(msg, "search", scopeAdmin) {
			return s.search.Focus()
		}
	}
	return nil
}

// trendBars draws one horizontal bar per month scaled to width.
func trendBars(trend []care.MonthlyConsultations, width int) string {
	peak := 0
	for _, t := range trend {
		peak = max(peak, t.Consultations)
	}
	if peak == 0 {
		return ""
	}
	span := max(1, width-16)
	lines := make([]string, len(trend))
	for i, t := range trend {
		n := t.Consultations * span / peak
		lines[i] = fmt.Sprintf("%-4s %s %d", t.Month, okStyle.Render(strings.Repeat(barGlyph, n)), t.Consultations)
	}
	return strings.Join(lines, "\n")
}

func (s *adminScreen) View(m *Model, width, height int) string {
	if !s.loaded {
		return mutedStyle.Render("…")
	}
	o := s.overview
	half := max(24, width/2)

	growth := okStyle.Render(fmt.Sprintf("+%d%%", o.GrowthPct()))
	if o.GrowthPct() < 0 {
		growth = errStyle.Render(fmt.Sprintf("%d%%", o.GrowthPct()))
	}
	summary := fmt.Sprintf("%s: %d   %s: %s   %s: %d/%d   %s: %d",
		m.T("admin.consultations"), o.TotalConsultations(),
		m.T("admin.growth"), growth,
		m.T("admin.villages"), o.ActiveVillages, len(o.Villages),
		m.T("admin.appointments"), o.Appointments)

	roles := make([]string, 0, len(o.Users))
	for role := range o.Users {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	users := make([]string, len(roles))
	for i, role := range roles {
		users[i] = fmt.Sprintf("%-10s %d", role, o.Users[role])
	}

	villages := make([]string, len(s.villages))
	for i, v := range s.villages {
		status := okStyle.Render(v.Status)
		if v.Status != "active" {
			status = warnStyle.Render(v.Status)
		}
		villages[i] = fmt.Sprintf("%-12s %4d %4d  %s", v.Village, v.Patients, v.Consultations, status)
	}

	recent := make([]string, len(o.Recent))
	for i, c := range o.Recent {
		recent[i] = fmt.Sprintf("%s %-12s %-18s %-5s %3dm %s", c.ID, c.Patient, c.Doctor, c.CallType, c.DurationMin, mutedStyle.Render(c.Ago))
	}

	h := o.Health
	health := strings.Join([]string{
		fmt.Sprintf("%s %.1f%%", m.T("admin.uptime"), h.UptimePct),
		fmt.Sprintf("%s %d", m.T("admin.connections"), h.ActiveConnections),
		fmt.Sprintf("%s %d%%", m.T("admin.serverLoad"), h.ServerLoadPct),
		fmt.Sprintf("%s %d%%", m.T("admin.database"), h.DatabaseHealthPct),
		fmt.Sprintf("%s %dms", m.T("admin.api"), h.APIResponseMS),
	}, "\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		box(m.T("admin.consultations"), trendBars(o.Trend, half-4), half, true),
		box(m.T("admin.users"), strings.Join(users, "\n"), max(16, (width-half)/2), false),
		box(m.T("admin.health"), health, max(16, width-half-(width-half)/2), false),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		box(m.T("admin.villages"), s.search.View()+"\n"+strings.Join(villages, "\n"), half, false),
		box(m.T("admin.recent"), strings.Join(recent, "\n"), max(20, width-half), false),
	)
	return lipgloss.JoinVertical(lipgloss.Left, summary, top, bottom)
}
