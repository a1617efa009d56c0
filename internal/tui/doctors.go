package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
)

var doctorSorts = []care.DoctorSort{care.SortRating, care.SortExperience, care.SortFee}

type doctorsScreen struct {
	all      []care.Doctor
	shown    []care.Doctor
	filter   care.DoctorFilter
	search   searchBox
	cursor   int
	callType care.CallType
	loaded   bool
}

func newDoctorsScreen(m *Model) *doctorsScreen {
	return &doctorsScreen{
		filter:   care.DoctorFilter{Specialization: "all", Language: "all", SortBy: care.SortRating},
		search:   newSearchBox(m.T("doctors.search")),
		callType: m.router.State().CallType,
	}
}

func (s *doctorsScreen) Title(m *Model) string { return m.T("doctors.title") }

func (s *doctorsScreen) Scope() string {
	if s.search.focused {
		return scopeSearch
	}
	return scopeDoctors
}

func (s *doctorsScreen) Capturing() bool { return s.search.focused }

func (s *doctorsScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("doctors", func(ctx context.Context) (any, error) { return cat.Doctors(ctx) })
}

func (s *doctorsScreen) refilter() {
	s.filter.Query = s.search.Value()
	s.shown = care.FilterDoctors(s.all, s.filter)
	s.cursor = clamp(s.cursor, 0, len(s.shown)-1)
}

func (s *doctorsScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.all, _ = msg.data.([]care.Doctor)
		s.loaded = true
		s.refilter()
	case tea.KeyMsg:
		if s.search.focused {
			cmd, changed := s.search.Update(m, msg)
			if changed {
				s.refilter()
			}
			return cmd
		}
		scope := scopeDoctors
		switch {
		case m.keys.IsAction(msg, "search", scope):
			return s.search.Focus()
		case m.keys.IsAction(msg, "down", scope):
			s.cursor = clamp(s.cursor+1, 0, len(s.shown)-1)
		case m.keys.IsAction(msg, "up", scope):
			s.cursor = clamp(s.cursor-1, 0, len(s.shown)-1)
		case m.keys.IsAction(msg, "filter", scope):
			s.filter.Specialization = cycle(care.Specializations, s.filter.Specialization)
			s.refilter()
		case m.keys.IsAction(msg, "language-filter", scope):
			s.filter.Language = cycle(care.FilterLanguages, s.filter.Language)
			s.refilter()
		case m.keys.IsAction(msg, "sort", scope):
			s.filter.SortBy = cycle(doctorSorts, s.filter.SortBy)
			s.refilter()
		case m.keys.IsAction(msg, "call-type", scope):
			s.callType = cycle([]care.CallType{care.CallVideo, care.CallAudio}, s.callType)
		case m.keys.IsAction(msg, "select", scope):
			if len(s.shown) == 0 {
				return nil
			}
			return m.apply(m.router.SelectDoctor(s.shown[s.cursor], s.callType))
		}
	}
	return nil
}

func availability(m *Model, a care.Availability) string {
	switch a {
	case care.Available:
		return okStyle.Render("● " + m.T("doctors.available"))
	case care.Busy:
		return warnStyle.Render("● " + m.T("doctors.busy"))
	}
	return mutedStyle.Render("● " + string(a))
}

func (s *doctorsScreen) View(m *Model, width, height int) string {
	var head strings.Builder
	head.WriteString(s.search.View() + "\n")
	head.WriteString(mutedStyle.Render(fmt.Sprintf("%s: %s   %s: %s   %s: %s   %s",
		m.T("doctors.specialization"), s.filter.Specialization,
		m.T("doctors.language"), s.filter.Language,
		m.T("doctors.sort"), s.filter.SortBy,
		strings.ToUpper(string(s.callType)))))
	if u := m.router.State().Urgency; u != "" {
		head.WriteString("\n" + warnStyle.Render(m.T("scheduler.urgency")+": "+m.T("scheduler."+string(u))))
	}

	if !s.loaded {
		return head.String()
	}
	if len(s.shown) == 0 {
		return head.String() + "\n\n" + mutedStyle.Render(m.T("doctors.empty"))
	}

	items := make([]string, len(s.shown))
	for i, d := range s.shown {
		items[i] = fmt.Sprintf("%-20s %-17s ★%.1f", d.Name, d.Specialization, d.Rating)
	}
	listW := max(30, width/2)
	list := box("", cursorLines(items, s.cursor, max(1, height-8)), listW, true)

	d := s.shown[s.cursor]
	detail := fmt.Sprintf("%s  %s\n%s\n%d %s · %s ₹%d\n%s\n%s",
		titleStyle.Render(d.Initials()), d.Name,
		d.Location,
		d.Experience, m.T("doctors.years"), m.T("doctors.fee"), d.Fee,
		strings.Join(d.Languages, ", "),
		availability(m, d.Availability)+"  "+mutedStyle.Render(d.NextSlot))
	if d.Verified {
		detail += "  " + okStyle.Render("✓")
	}
	side := box(d.Specialization, detail, max(20, width-listW), false)

	return lipgloss.JoinVertical(lipgloss.Left, head.String(), lipgloss.JoinHorizontal(lipgloss.Top, list, side))
}
