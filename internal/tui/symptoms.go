package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/care"
)

type symptomStep int

const (
	stepInput symptomStep = iota
	stepAnalysis
	stepResults
)

type analysisProgressMsg struct {
	stamp
	pct int
}

type analysisDoneMsg struct {
	stamp
	result care.Analysis
	err    error
}

// durationLabels renders SymptomDurations values.
var durationLabels = map[string]string{
	"few_hours": "A few hours",
	"1_day":     "1 day",
	"2_3_days":  "2-3 days",
	"1_week":    "About a week",
	"more_week": "More than a week",
}

type symptomsScreen struct {
	step    symptomStep
	report  care.SymptomReport
	input   textinput.Model
	age     textinput.Model
	active  *textinput.Model
	editing bool
	bar     progress.Model
	pct     int
	events  chan tea.Msg
	result  care.Analysis
}

func newSymptomsScreen(m *Model) *symptomsScreen {
	ti := textinput.New()
	ti.Placeholder = m.T("symptoms.describe")
	ti.CharLimit = 280
	age := textinput.New()
	age.Placeholder = "25"
	age.CharLimit = 3
	return &symptomsScreen{
		report: care.NewSymptomReport(),
		input:  ti,
		age:    age,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (s *symptomsScreen) Title(m *Model) string { return m.T("symptoms.title") }

func (s *symptomsScreen) Scope() string {
	if s.editing {
		return scopeSearch
	}
	return scopeSymptoms
}

func (s *symptomsScreen) Capturing() bool { return s.editing }

func (s *symptomsScreen) Init(m *Model) tea.Cmd { return nil }

// analyze runs the analyzer in the background and streams its progress through events.
func (s *symptomsScreen) analyze(m *Model) tea.Cmd {
	s.report.Description = s.input.Value()
	s.report.Age = strings.TrimSpace(s.age.Value())
	if err := s.report.Validate(); err != nil {
		m.SetError(err)
		return nil
	}
	analyzer := m.deps.Analyzer
	if analyzer == nil {
		m.SetError(errors.New("symptom analysis is unavailable"))
		return nil
	}
	s.step, s.pct = stepAnalysis, 0
	s.events = make(chan tea.Msg, 4)
	events, report := s.events, s.report
	report.Selected = slices.Clone(report.Selected)
	start := m.run(func(ctx context.Context, st stamp) tea.Msg {
		go func() {
			defer close(events)
			send := func(msg tea.Msg) {
				select {
				case events <- msg:
				case <-ctx.Done():
				}
			}
			res, err := analyzer.Analyze(ctx, report, func(pct int) {
				send(analysisProgressMsg{stamp: st, pct: pct})
			})
			send(analysisDoneMsg{stamp: st, result: res, err: err})
		}()
		return nil
	})
	m.SetStatus(m.T("symptoms.analyzing"))
	return tea.Batch(start, waitFor(events))
}

// waitFor delivers the next message from ch, or nothing once ch is closed.
func waitFor(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (s *symptomsScreen) restart() {
	s.step, s.pct = stepInput, 0
	s.report = care.NewSymptomReport()
	s.input.SetValue("")
	s.age.SetValue("")
	s.result = care.Analysis{}
	s.events = nil
}

func (s *symptomsScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case analysisProgressMsg:
		s.pct = msg.pct
		return waitFor(s.events)
	case analysisDoneMsg:
		if msg.err != nil {
			s.step = stepInput
			m.SetError(msg.err)
			return nil
		}
		s.result, s.step, s.pct = msg.result, stepResults, 100
		m.SetStatus("")
	case tea.KeyMsg:
		if s.editing {
			if m.keys.IsAction(msg, "done", scopeSearch) {
				s.editing = false
				s.active.Blur()
				return nil
			}
			var cmd tea.Cmd
			*s.active, cmd = s.active.Update(msg)
			return cmd
		}
		scope := scopeSymptoms
		switch s.step {
		case stepInput:
			switch {
			case m.keys.IsAction(msg, "symptoms", scope):
				return s.edit(&s.input)
			case m.keys.IsAction(msg, "age", scope):
				return s.edit(&s.age)
			case m.keys.IsAction(msg, "gender", scope):
				s.report.Gender = care.NextOption(care.Genders, s.report.Gender)
			case m.keys.IsAction(msg, "duration", scope):
				s.report.Duration = care.NextOption(care.SymptomDurations, s.report.Duration)
			case m.keys.IsAction(msg, "severity", scope):
				s.report.Severity = care.NextOption(care.SymptomSeverities, s.report.Severity)
			case m.keys.IsAction(msg, "toggle-symptom", scope):
				if i := int(msg.String()[0] - '1'); i >= 0 && i < len(care.CommonSymptoms) {
					s.report.Toggle(care.CommonSymptoms[i].ID)
				}
			case m.keys.IsAction(msg, "analyze", scope):
				return s.analyze(m)
			}
		case stepResults:
			switch {
			case m.keys.IsAction(msg, "book", scope):
				return m.apply(m.router.BookConsultation(s.result.ConsultUrgency()))
			case m.keys.IsAction(msg, "restart", scope):
				s.restart()
			}
		}
	}
	return nil
}

func (s *symptomsScreen) edit(field *textinput.Model) tea.Cmd {
	s.editing, s.active = true, field
	return field.Focus()
}

func (s *symptomsScreen) detailsView(m *Model) string {
	orSkip := func(v string) string {
		if v == "" {
			return mutedStyle.Render("-")
		}
		return v
	}
	age := s.age.View()
	if !(s.editing && s.active == &s.age) {
		age = orSkip(strings.TrimSpace(s.age.Value()))
	}
	return fmt.Sprintf("a %s: %s   g %s: %s\nd %s: %s   v %s: %s",
		m.T("symptoms.age"), age,
		m.T("symptoms.gender"), orSkip(s.report.Gender),
		m.T("symptoms.duration"), orSkip(durationLabels[s.report.Duration]),
		m.T("symptoms.severity"), severityStyle(s.report.Severity).Render(s.report.Severity))
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "severe":
		return errStyle
	case "moderate":
		return warnStyle
	}
	return okStyle
}

func (s *symptomsScreen) View(m *Model, width, height int) string {
	switch s.step {
	case stepAnalysis:
		s.bar.Width = max(10, width-10)
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.T("symptoms.analyzing")),
			"",
			s.bar.ViewAs(float64(s.pct)/100)+fmt.Sprintf(" %3d%%", s.pct))
	case stepResults:
		return s.resultsView(m, width)
	}

	var chips strings.Builder
	for i, sym := range care.CommonSymptoms {
		mark := "[ ]"
		if slices.Contains(s.report.Selected, sym.ID) {
			mark = okStyle.Render("[x]")
		}
		fmt.Fprintf(&chips, "%d %s %s\n", i+1, mark, sym.Name)
	}
	desc := s.input.View()
	if !(s.editing && s.active == &s.input) && s.input.Value() == "" {
		desc = mutedStyle.Render("i: " + m.T("symptoms.describe"))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		box(m.T("symptoms.details"), s.detailsView(m), width, s.editing && s.active == &s.age),
		box(m.T("symptoms.describe"), desc, width, s.editing && s.active == &s.input),
		box(m.T("symptoms.common"), strings.TrimRight(chips.String(), "\n"), width, !s.editing),
		mutedStyle.Render(m.T("symptoms.disclaimer")),
	)
}

func (s *symptomsScreen) resultsView(m *Model, width int) string {
	r := s.result
	urgency := warnStyle
	if r.ConsultUrgency() == care.Routine {
		urgency = okStyle
	}
	head := fmt.Sprintf("%s\n%s: %d%%   %s: %s   %s",
		titleStyle.Render(r.PrimaryCondition),
		m.T("symptoms.confidence"), r.Confidence,
		m.T("symptoms.urgency"), urgency.Render(r.Urgency),
		mutedStyle.Render(r.RiskLevel))

	bullets := func(xs []string) string {
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = "• " + x
		}
		return strings.Join(out, "\n")
	}
	steps := fmt.Sprintf("%s\n%s\n%s",
		okStyle.Render(r.NextSteps.SelfCare),
		warnStyle.Render(r.NextSteps.Telemedicine),
		errStyle.Render(r.NextSteps.Emergency))

	return lipgloss.JoinVertical(lipgloss.Left,
		box(m.T("symptoms.result"), head, width, true),
		box(m.T("symptoms.recommendations"), bullets(r.Recommendations), width, false),
		box(m.T("symptoms.redFlags"), errStyle.Render(bullets(r.RedFlags)), width, false),
		box("", steps, width, false),
		mutedStyle.Render(m.T("symptoms.disclaimer")),
	)
}
