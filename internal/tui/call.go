package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ruralcare/internal/call"
	"github.com/jask/ruralcare/internal/care"
)

type callTickMsg struct{ stamp }

type qualityMsg struct{ stamp }

type callScreen struct {
	call  *call.Session
	input textinput.Model
}

func newCallScreen(m *Model) *callScreen {
	st := m.router.State()
	p := call.Participants{PatientName: m.patientName()}
	if st.Doctor != nil {
		p.DoctorName, p.DoctorSpecialization = st.Doctor.Name, st.Doctor.Specialization
	}
	ti := textinput.New()
	ti.Placeholder = m.T("call.typeMessage")
	ti.CharLimit = 280
	return &callScreen{call: call.New(p, st.CallType), input: ti}
}

func (s *callScreen) Title(m *Model) string { return m.T("call.title") }

func (s *callScreen) Scope() string {
	if s.call.ChatOpen {
		return scopeChat
	}
	return scopeCall
}

func (s *callScreen) Capturing() bool { return s.call.ChatOpen }

func (s *callScreen) tick(m *Model) tea.Cmd {
	return m.after(time.Second, func(st stamp) tea.Msg { return callTickMsg{st} })
}

func (s *callScreen) quality(m *Model) tea.Cmd {
	return m.after(m.deps.QualityInterval, func(st stamp) tea.Msg { return qualityMsg{st} })
}

func (s *callScreen) Init(m *Model) tea.Cmd {
	return tea.Batch(s.tick(m), s.quality(m))
}

func (s *callScreen) Update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case callTickMsg:
		s.call.Tick()
		return s.tick(m)
	case qualityMsg:
		s.call.CycleQuality(m.deps.Rand)
		return s.quality(m)
	case tea.KeyMsg:
		if s.call.ChatOpen {
			switch {
			case m.keys.IsAction(msg, "close-chat", scopeChat):
				s.call.ToggleChat()
				s.input.Blur()
				return nil
			case m.keys.IsAction(msg, "send", scopeChat):
				if s.call.Send(s.input.Value(), m.deps.Now()) {
					s.input.Reset()
				}
				return nil
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return cmd
		}
		switch {
		case m.keys.IsAction(msg, "mute", scopeCall):
			s.call.ToggleAudio()
		case m.keys.IsAction(msg, "camera", scopeCall):
			s.call.ToggleVideo()
		case m.keys.IsAction(msg, "speaker", scopeCall):
			s.call.ToggleSpeaker()
		case m.keys.IsAction(msg, "chat", scopeCall):
			s.call.ToggleChat()
			return s.input.Focus()
		case m.keys.IsAction(msg, "end-call", scopeCall):
			dur := s.call.Elapsed()
			cmd := m.apply(m.router.EndCall())
			m.SetStatus(fmt.Sprintf("%s · %s", m.T("call.end"), dur))
			return cmd
		}
	}
	return nil
}

func onOff(label string, on bool) string {
	if on {
		return activeTabStyle.Render(label)
	}
	return inactiveTabStyle.Render(label + " ✗")
}

func (s *callScreen) View(m *Model, width, height int) string {
	c := s.call
	var q string
	switch c.Quality {
	case call.QualityGood:
		q = okStyle.Render(m.T("call.good"))
	case call.QualityFair:
		q = warnStyle.Render(m.T("call.fair"))
	default:
		q = errStyle.Render(m.T("call.poor"))
	}
	head := fmt.Sprintf("%s  %s   %s  %s: %s",
		titleStyle.Render(c.DoctorName), mutedStyle.Render(c.DoctorSpecialization),
		c.Elapsed(), m.T("call.quality"), q)

	var stage string
	if c.Type == care.CallVideo && c.Video {
		stage = fmt.Sprintf("[ %s ]\n\n%s", c.DoctorName, mutedStyle.Render("▣ "+c.PatientName))
	} else {
		stage = fmt.Sprintf("%s\n\n%s", c.DoctorName, mutedStyle.Render(m.T("call.audioOnly")))
	}
	stageW := width
	if c.ChatOpen {
		stageW = max(20, width*3/5)
	}
	stageBox := box("", lipgloss.NewStyle().Width(max(1, stageW-6)).Align(lipgloss.Center).Render(stage), stageW, !c.ChatOpen)

	controls := strings.Join([]string{
		onOff(m.T("call.mute"), c.Audio),
		onOff(m.T("call.camera"), c.Video),
		onOff(m.T("call.speaker"), c.Speaker),
		onOff(m.T("call.chat"), c.ChatOpen),
		errStyle.Render(m.T("call.end")),
	}, " ")

	main := stageBox
	if c.ChatOpen {
		lines := make([]string, 0, len(c.Messages)+2)
		for _, msg := range c.Messages {
			who := c.DoctorName
			style := mutedStyle
			if msg.Sender == call.FromPatient {
				who, style = c.PatientName, okStyle
			}
			lines = append(lines, style.Render(who+" "+msg.At)+"\n"+msg.Text)
		}
		keep := max(1, height-10)
		if len(lines) > keep {
			lines = lines[len(lines)-keep:]
		}
		chat := box(m.T("call.chat"), strings.Join(lines, "\n")+"\n"+s.input.View(), max(20, width-stageW), true)
		main = lipgloss.JoinHorizontal(lipgloss.Top, stageBox, chat)
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, main, controls)
}
