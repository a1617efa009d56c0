package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/ruralcare/internal/care"
)

type bookedMsg struct {
	stamp
	appt care.Appointment
	err  error
}

type schedulerScreen struct {
	dayOffset int
	slot      int
	urgency   care.Urgency
	callType  care.CallType
	symptoms  textinput.Model
	editing   bool
	booking   bool
}

func newSchedulerScreen(m *Model) *schedulerScreen {
	st := m.router.State()
	ti := textinput.New()
	ti.Placeholder = m.T("scheduler.symptoms")
	ti.CharLimit = 280
	u := st.Urgency
	if !u.Valid() {
		u = care.Routine
	}
	return &schedulerScreen{urgency: u, callType: st.CallType, symptoms: ti}
}

func (s *schedulerScreen) Title(m *Model) string { return m.T("scheduler.title") }

func (s *schedulerScreen) Scope() string {
	if s.editing {
		return scopeSearch
	}
	return scopeScheduler
}

func (s *schedulerScreen) Capturing() bool { return s.editing }

func (s *schedulerScreen) Init(m *Model) tea.Cmd { return nil }

func (s *schedulerScreen) day(m *Model) time.Time {
	return m.deps.Now().AddDate(0, 0, s.dayOffset)
}

func (s *schedulerScreen) slots(m *Model) []string {
	return care.TimeSlots(s.day(m), m.deps.Now())
}

func (s *schedulerScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case bookedMsg:
		s.booking = false
		if msg.err != nil {
			m.SetError(msg.err)
			return nil
		}
		cmd := m.apply(m.router.ScheduleAppointment(msg.appt))
		m.SetStatus(fmt.Sprintf("%s: %s %s", m.T("scheduler.booked"), msg.appt.Date.Format("Mon 2 Jan"), msg.appt.Time))
		return cmd
	case tea.KeyMsg:
		if s.editing {
			if m.keys.IsAction(msg, "done", scopeSearch) {
				s.editing = false
				s.symptoms.Blur()
				return nil
			}
			var cmd tea.Cmd
			s.symptoms, cmd = s.symptoms.Update(msg)
			return cmd
		}
		if s.booking {
			return nil
		}
		scope := scopeScheduler
		switch {
		case m.keys.IsAction(msg, "next-day", scope):
			s.dayOffset = clamp(s.dayOffset+1, 0, care.BookingWindowDays)
			s.slot = 0
		case m.keys.IsAction(msg, "prev-day", scope):
			s.dayOffset = clamp(s.dayOffset-1, 0, care.BookingWindowDays)
			s.slot = 0
		case m.keys.IsAction(msg, "next-slot", scope):
			s.slot = clamp(s.slot+1, 0, len(s.slots(m))-1)
		case m.keys.IsAction(msg, "prev-slot", scope):
			s.slot = clamp(s.slot-1, 0, len(s.slots(m))-1)
		case m.keys.IsAction(msg, "urgency", scope):
			s.urgency = cycle(care.Urgencies, s.urgency)
		case m.keys.IsAction(msg, "call-type", scope):
			s.callType = cycle([]care.CallType{care.CallVideo, care.CallAudio}, s.callType)
		case m.keys.IsAction(msg, "symptoms", scope):
			s.editing = true
			return s.symptoms.Focus()
		case m.keys.IsAction(msg, "confirm", scope):
			return s.confirm(m)
		}
	}
	return nil
}

func (s *schedulerScreen) confirm(m *Model) tea.Cmd {
	doc := m.router.State().Doctor
	slots := s.slots(m)
	if doc == nil {
		m.SetError(errors.New("no doctor selected"))
		return nil
	}
	if len(slots) == 0 {
		m.SetError(errors.New(m.T("scheduler.noSlots")))
		return nil
	}
	if m.deps.Booking == nil {
		m.SetError(errors.New("booking not configured"))
		return nil
	}
	req := care.AppointmentRequest{
		Doctor:   *doc,
		Date:     s.day(m),
		Time:     slots[clamp(s.slot, 0, len(slots)-1)],
		CallType: s.callType,
		Symptoms: s.symptoms.Value(),
		Urgency:  s.urgency,
	}
	s.booking = true
	booking, patient := m.deps.Booking, m.patientID()
	return m.run(func(ctx context.Context, st stamp) tea.Msg {
		a, err := booking.Book(ctx, req, patient)
		return bookedMsg{stamp: st, appt: a, err: err}
	})
}

func (s *schedulerScreen) View(m *Model, width, height int) string {
	doc := m.router.State().Doctor
	var b strings.Builder
	if doc != nil {
		b.WriteString(fmt.Sprintf("%s  %s  %s ₹%d\n\n", titleStyle.Render(doc.Name), mutedStyle.Render(doc.Specialization), m.T("doctors.fee"), doc.Fee))
	}

	b.WriteString(fmt.Sprintf("%s: ◀ %s ▶\n", m.T("scheduler.day"), s.day(m).Format("Monday, January 2, 2006")))

	slots := s.slots(m)
	var slotView string
	if len(slots) == 0 {
		slotView = mutedStyle.Render(m.T("scheduler.noSlots"))
	} else {
		cells := make([]string, len(slots))
		for i, sl := range slots {
			if i == clamp(s.slot, 0, len(slots)-1) {
				cells[i] = cursorStyle.Render(fmt.Sprintf("%-9s", sl))
			} else {
				cells[i] = fmt.Sprintf("%-9s", sl)
			}
		}
		var rows []string
		for i := 0; i < len(cells); i += 4 {
			rows = append(rows, strings.Join(cells[i:min(i+4, len(cells))], " "))
		}
		slotView = strings.Join(rows, "\n")
	}
	b.WriteString(box(m.T("scheduler.slot"), slotView, min(width, 50), true) + "\n")

	urg := make([]string, len(care.Urgencies))
	for i, u := range care.Urgencies {
		label := m.T("scheduler." + string(u))
		if u == s.urgency {
			urg[i] = activeTabStyle.Render(label)
		} else {
			urg[i] = inactiveTabStyle.Render(label)
		}
	}
	b.WriteString(m.T("scheduler.urgency") + ": " + strings.Join(urg, " ") + "   " + strings.ToUpper(string(s.callType)) + "\n")
	b.WriteString(m.T("scheduler.symptoms") + ": " + s.symptoms.View() + "\n\n")
	if s.booking {
		b.WriteString(mutedStyle.Render("…"))
	} else {
		b.WriteString(cursorStyle.Render(" " + m.T("scheduler.confirm") + " "))
	}
	return b.String()
}
