package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeLogin     = "screen:login"
	scopeDashboard = "screen:dashboard"
	scopeDoctors   = "screen:doctors"
	scopeScheduler = "screen:scheduler"
	scopeCall      = "screen:call"
	scopeChat      = "screen:call:chat"
	scopeRecords   = "screen:records"
	scopeEmergency = "screen:emergency"
	scopeMedicine  = "screen:medicine"
	scopePharmacy  = "screen:pharmacy"
	scopeSymptoms  = "screen:symptoms"
	scopeAdmin     = "screen:admin"
	scopeSearch    = "input:search"
)

// signedIn lists every scope a signed-in user can be in.
var signedIn = []string{
	scopeDashboard, scopeDoctors, scopeScheduler, scopeCall, scopeRecords, scopeEmergency,
	scopeMedicine, scopePharmacy, scopeSymptoms, scopeAdmin,
}

// subScreens are the scopes with a back transition.
var subScreens = []string{
	scopeDoctors, scopeScheduler, scopeCall, scopeRecords, scopeEmergency, scopeMedicine, scopePharmacy, scopeSymptoms,
}

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string

	binding key.Binding
}

// Help is the footer hint: the first key and the description.
func (b KeyBinding) Help() key.Help { return b.binding.Help() }

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	r := &KeyRegistry{bindings: make([]KeyBinding, 0, len(bindings))}
	for _, b := range bindings {
		b.binding = key.NewBinding(key.WithKeys(b.Keys...))
		if len(b.Keys) > 0 {
			b.binding.SetHelp(b.Keys[0], b.Description)
		}
		r.bindings = append(r.bindings, b)
	}
	return r
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	for _, b := range r.bindings {
		if b.Action == action && scopeMatch(scope, b.Scopes) && key.Matches(msg, b.binding) {
			return true
		}
	}
	return false
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

func scopes(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(s ...string) []string { return s }

func DefaultKeyBindings() []KeyBinding {
	lists := one(scopeDoctors, scopeRecords, scopeMedicine, scopePharmacy, scopeDashboard)
	searchable := one(scopeDoctors, scopeRecords, scopeMedicine, scopePharmacy, scopeAdmin)
	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Action: "quit", Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"q"}, Action: "quit", Description: "quit", Scopes: one(scopeDashboard, scopeAdmin)},

		{Keys: []string{"tab", "down"}, Action: "next-field", Description: "next field", Scopes: one(scopeLogin)},
		{Keys: []string{"shift+tab", "up"}, Action: "prev-field", Description: "prev field", Scopes: one(scopeLogin)},
		{Keys: []string{"ctrl+r"}, Action: "cycle-role", Description: "role", Scopes: one(scopeLogin)},
		{Keys: []string{"ctrl+g"}, Action: "cycle-language", Description: "language", Scopes: one(scopeLogin)},
		{Keys: []string{"enter"}, Action: "submit", Description: "sign in", Scopes: one(scopeLogin)},

		{Keys: []string{"j", "down"}, Action: "down", Description: "down", Scopes: lists},
		{Keys: []string{"k", "up"}, Action: "up", Description: "up", Scopes: lists},
		{Keys: []string{"enter"}, Action: "select", Description: "open", Scopes: one(scopeDashboard, scopeDoctors)},
		{Keys: []string{"v"}, Action: "tile-video", Description: "video call", Scopes: one(scopeDashboard)},
		{Keys: []string{"a"}, Action: "tile-audio", Description: "audio call", Scopes: one(scopeDashboard)},
		{Keys: []string{"s"}, Action: "tile-symptoms", Description: "symptoms", Scopes: one(scopeDashboard)},
		{Keys: []string{"m"}, Action: "tile-medicine", Description: "medicines", Scopes: one(scopeDashboard)},
		{Keys: []string{"r"}, Action: "tile-records", Description: "records", Scopes: one(scopeDashboard)},

		{Keys: []string{"/"}, Action: "search", Description: "search", Scopes: searchable},
		{Keys: []string{"f"}, Action: "filter", Description: "filter", Scopes: one(scopeDoctors, scopeRecords, scopeMedicine)},
		{Keys: []string{"l"}, Action: "language-filter", Description: "language", Scopes: one(scopeDoctors)},
		{Keys: []string{"o"}, Action: "sort", Description: "sort", Scopes: one(scopeDoctors, scopeMedicine)},
		{Keys: []string{"t"}, Action: "call-type", Description: "video/audio", Scopes: one(scopeDoctors, scopeScheduler)},
		{Keys: []string{"d"}, Action: "radius", Description: "radius", Scopes: one(scopePharmacy)},

		{Keys: []string{"left", "h"}, Action: "prev-day", Description: "prev day", Scopes: one(scopeScheduler)},
		{Keys: []string{"right", "l"}, Action: "next-day", Description: "next day", Scopes: one(scopeScheduler)},
		{Keys: []string{"k", "up"}, Action: "prev-slot", Description: "prev slot", Scopes: one(scopeScheduler)},
		{Keys: []string{"j", "down"}, Action: "next-slot", Description: "next slot", Scopes: one(scopeScheduler)},
		{Keys: []string{"u"}, Action: "urgency", Description: "urgency", Scopes: one(scopeScheduler)},
		{Keys: []string{"i"}, Action: "symptoms", Description: "symptoms", Scopes: one(scopeScheduler, scopeSymptoms)},
		{Keys: []string{"enter"}, Action: "confirm", Description: "confirm", Scopes: one(scopeScheduler)},

		{Keys: []string{"m"}, Action: "mute", Description: "mute", Scopes: one(scopeCall)},
		{Keys: []string{"v"}, Action: "camera", Description: "camera", Scopes: one(scopeCall)},
		{Keys: []string{"p"}, Action: "speaker", Description: "speaker", Scopes: one(scopeCall)},
		{Keys: []string{"c"}, Action: "chat", Description: "chat", Scopes: one(scopeCall)},
		{Keys: []string{"e"}, Action: "end-call", Description: "end call", Scopes: one(scopeCall)},
		{Keys: []string{"enter"}, Action: "send", Description: "send", Scopes: one(scopeChat)},
		{Keys: []string{"esc"}, Action: "close-chat", Description: "close chat", Scopes: one(scopeChat)},

		{Keys: []string{"y"}, Action: "sync", Description: "sync", Scopes: one(scopeRecords)},
		{Keys: []string{"e"}, Action: "emergency", Description: "emergency", Scopes: one(scopeRecords)},
		{Keys: []string{"p"}, Action: "pharmacies", Description: "pharmacies", Scopes: one(scopeMedicine)},

		{Keys: []string{"1", "2", "3", "4", "5", "6", "7", "8"}, Action: "toggle-symptom", Description: "toggle symptom", Scopes: one(scopeSymptoms)},
		{Keys: []string{"enter"}, Action: "analyze", Description: "analyze", Scopes: one(scopeSymptoms)},
		{Keys: []string{"a"}, Action: "age", Description: "age", Scopes: one(scopeSymptoms)},
		{Keys: []string{"g"}, Action: "gender", Description: "gender", Scopes: one(scopeSymptoms)},
		{Keys: []string{"d"}, Action: "duration", Description: "duration", Scopes: one(scopeSymptoms)},
		{Keys: []string{"v"}, Action: "severity", Description: "severity", Scopes: one(scopeSymptoms)},
		{Keys: []string{"b"}, Action: "book", Description: "book consult", Scopes: one(scopeSymptoms)},
		{Keys: []string{"n"}, Action: "restart", Description: "new check", Scopes: one(scopeSymptoms)},

		{Keys: []string{"enter", "esc"}, Action: "done", Description: "done", Scopes: one(scopeSearch)},

		{Keys: []string{"esc"}, Action: "back", Description: "back", Scopes: subScreens},
		{Keys: []string{"ctrl+l"}, Action: "logout", Description: "logout", Scopes: scopes(signedIn, one(scopeChat, scopeSearch))},
	}
}
