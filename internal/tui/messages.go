package tui

import tea "github.com/charmbracelet/bubbletea"

// stamp ties a message to the screen generation that asked for it.
type stamp struct{ gen int }

func (s stamp) screenGen() int { return s.gen }

type stamped interface{ screenGen() int }

type StatusMsg struct {
	Text  string
	IsErr bool
}

type dataMsg struct {
	stamp
	key  string
	data any
	err  error
}

// errStatus reports err on the status bar; a nil err leaves the bar alone.
func errStatus(err error) tea.Msg {
	if err == nil {
		return nil
	}
	return StatusMsg{Text: err.Error(), IsErr: true}
}
