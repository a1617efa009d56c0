package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
)

var recordKinds = append([]care.RecordKind{""}, care.RecordKinds...)

type syncedMsg struct {
	stamp
	n   int64
	err error
}

type recordsScreen struct {
	all    []care.HealthRecord
	shown  []care.HealthRecord
	kind   care.RecordKind
	search searchBox
	cursor int
}

func newRecordsScreen(m *Model) *recordsScreen {
	return &recordsScreen{search: newSearchBox(m.T("records.search"))}
}

func (s *recordsScreen) Title(m *Model) string { return m.T("records.title") }

func (s *recordsScreen) Scope() string {
	if s.search.focused {
		return scopeSearch
	}
	return scopeRecords
}

func (s *recordsScreen) Capturing() bool { return s.search.focused }

func (s *recordsScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("records", func(ctx context.Context) (any, error) { return cat.Records(ctx) })
}

func (s *recordsScreen) refilter() {
	s.shown = care.FilterRecords(s.all, s.search.Value(), s.kind)
	s.cursor = clamp(s.cursor, 0, len(s.shown)-1)
}

func (s *recordsScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.all, _ = msg.data.([]care.HealthRecord)
		s.refilter()
	case syncedMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		for i := range s.all {
			s.all[i].Synced = true
		}
		s.refilter()
		m.SetStatus(fmt.Sprintf("%s (%d)", m.T("records.synced"), msg.n))
	case tea.KeyMsg:
		if s.search.focused {
			cmd, changed := s.search.Update(m, msg)
			if changed {
				s.refilter()
			}
			return cmd
		}
		scope := scopeRecords
		switch {
		case m.keys.IsAction(msg, "search", scope):
			return s.search.Focus()
		case m.keys.IsAction(msg, "down", scope):
			s.cursor = clamp(s.cursor+1, 0, len(s.shown)-1)
		case m.keys.IsAction(msg, "up", scope):
			s.cursor = clamp(s.cursor-1, 0, len(s.shown)-1)
		case m.keys.IsAction(msg, "filter", scope):
			s.kind = cycle(recordKinds, s.kind)
			s.refilter()
		case m.keys.IsAction(msg, "emergency", scope):
			return m.apply(m.router.OpenEmergencyInfo())
		case m.keys.IsAction(msg, "sync", scope):
			cat := m.deps.Catalog
			if cat == nil {
				return nil
			}
			return m.run(func(ctx context.Context, st stamp) tea.Msg {
				n, err := cat.SyncRecords(ctx)
				return syncedMsg{stamp: st, n: n, err: err}
			})
		}
	}
	return nil
}

func recordStatus(status string) string {
	switch status {
	case "abnormal":
		return warnStyle.Render(status)
	case "critical":
		return errStyle.Render(status)
	}
	return okStyle.Render(status)
}

func (s *recordsScreen) View(m *Model, width, height int) string {
	kind := "all"
	if s.kind != "" {
		kind = string(s.kind)
	}
	head := s.search.View() + "\n" + mutedStyle.Render("type: "+kind)
	if n := care.Unsynced(s.all); n > 0 {
		head += "   " + warnStyle.Render(fmt.Sprintf("%d %s", n, m.T("records.unsynced")))
	}
	if len(s.shown) == 0 {
		return head
	}

	items := make([]string, len(s.shown))
	for i, r := range s.shown {
		mark := " "
		if !r.Synced {
			mark = "↻"
		}
		items[i] = fmt.Sprintf("%s %s  %-24s %s", mark, r.Date.Format("2006-01-02"), r.Title, r.Kind)
	}
	listW := max(30, width/2)
	list := box("", cursorLines(items, s.cursor, max(1, height-6)), listW, true)

	r := s.shown[s.cursor]
	var d strings.Builder
	d.WriteString(recordStatus(r.Status) + "\n")
	if r.Doctor != "" {
		d.WriteString(r.Doctor + "\n")
	}
	if r.Hospital != "" {
		d.WriteString(mutedStyle.Render(r.Hospital) + "\n")
	}
	d.WriteString("\n" + lipgloss.NewStyle().Width(max(10, width-listW-6)).Render(r.Summary))
	if len(r.Attachments) > 0 {
		d.WriteString("\n\n" + mutedStyle.Render("📎 "+strings.Join(r.Attachments, ", ")))
	}
	detail := box(r.Title, d.String(), max(20, width-listW), false)
	return lipgloss.JoinVertical(lipgloss.Left, head, lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
}

type emergencyScreen struct {
	profile care.EmergencyProfile
	loaded  bool
}

func (s *emergencyScreen) Title(m *Model) string { return m.T("emergency.title") }
func (s *emergencyScreen) Scope() string         { return scopeEmergency }

func (s *emergencyScreen) Init(m *Model) tea.Cmd {
	cat := m.deps.Catalog
	if cat == nil {
		return nil
	}
	return m.load("emergency", func(ctx context.Context) (any, error) { return cat.Emergency(ctx) })
}

func (s *emergencyScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(dataMsg); ok {
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		s.profile, _ = msg.data.(care.EmergencyProfile)
		s.loaded = true
	}
	return nil
}

func (s *emergencyScreen) View(m *Model, width, height int) string {
	banner := errStyle.Bold(true).Render("☎ " + m.T("emergency.call"))
	if !s.loaded {
		return banner
	}
	alerts := make([]string, 0, len(s.profile.Alerts))
	for _, a := range s.profile.Alerts {
		style := mutedStyle
		switch a.Severity {
		case care.SeverityCritical:
			style = errStyle
		case care.SeverityImportant:
			style = warnStyle
		}
		alerts = append(alerts, style.Render(fmt.Sprintf("%-10s %s (%s)", a.Kind, a.Description, a.Severity)))
	}
	contacts := make([]string, 0, len(s.profile.Contacts))
	for _, c := range s.profile.Contacts {
		contacts = append(contacts, fmt.Sprintf("%-24s %s  %s", c.Name, c.Phone, mutedStyle.Render(c.Relation)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		banner,
		box(m.T("emergency.alerts"), strings.Join(alerts, "\n"), width, false),
		box(m.T("emergency.contacts"), strings.Join(contacts, "\n"), width, false),
	)
}
