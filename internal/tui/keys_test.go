package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"y"}, Action: "sync", Scopes: []string{scopeRecords}},
		{Keys: []string{"ctrl+c"}, Action: "quit", Scopes: []string{"*"}},
	})
	y := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	if !reg.IsAction(y, "sync", scopeRecords) {
		t.Fatalf("expected y to sync on records")
	}
	if reg.IsAction(y, "sync", scopeDoctors) {
		t.Fatalf("did not expect y to sync on doctors")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlC}, "quit", scopeCall) {
		t.Fatalf("expected ctrl+c to match wildcard scope")
	}
}

func TestDefaultBindingsNoConflicts(t *testing.T) {
	all := append([]string{scopeLogin, scopeChat, scopeSearch}, signedIn...)
	for _, scope := range all {
		owner := map[string]string{}
		for _, b := range DefaultKeyBindings() {
			if !scopeMatch(scope, b.Scopes) {
				continue
			}
			for _, k := range b.Keys {
				if prev, ok := owner[k]; ok && prev != b.Action {
					t.Fatalf("scope %s: key %q bound to %q and %q", scope, k, prev, b.Action)
				}
				owner[k] = b.Action
			}
		}
	}
}

func TestLogoutReachableWhileTyping(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	ctrlL := tea.KeyMsg{Type: tea.KeyCtrlL}
	for _, scope := range []string{scopeDashboard, scopeChat, scopeSearch, scopeAdmin} {
		if !reg.IsAction(ctrlL, "logout", scope) {
			t.Fatalf("ctrl+l is not logout in %s", scope)
		}
	}
	if reg.IsAction(ctrlL, "logout", scopeLogin) {
		t.Fatalf("logout should not be bound on the login screen")
	}
}

func TestBackOnlyOnSubScreens(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	if reg.IsAction(esc, "back", scopeDashboard) {
		t.Fatalf("esc should not go back from the dashboard")
	}
	if !reg.IsAction(esc, "back", scopeEmergency) {
		t.Fatalf("esc should go back from emergency info")
	}
}

func TestFooterListsEachActionOnce(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, runeKey("r"))
	footer := ansi.Strip(renderFooter(m))
	if !strings.Contains(footer, "y sync") {
		t.Fatalf("footer %q has no sync hint", footer)
	}
	if n := strings.Count(footer, "logout"); n != 1 {
		t.Fatalf("footer lists logout %d times: %q", n, footer)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, runeKey("s"))
	footer = ansi.Strip(renderFooter(m))
	if strings.Count(footer, "toggle symptom") != 1 || !strings.Contains(footer, "1 toggle symptom") {
		t.Fatalf("footer %q should show the first toggle key once", footer)
	}
}

func TestFooterSkipsKeylessBindings(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	m.keys = NewKeyRegistry([]KeyBinding{{Action: "ghost", Description: "ghost", Scopes: []string{"*"}}})
	if footer := ansi.Strip(renderFooter(m)); strings.Contains(footer, "ghost") || !strings.Contains(footer, "No shortcuts") {
		t.Fatalf("footer = %q", footer)
	}
	if m.keys.IsAction(runeKey("g"), "ghost", scopeDashboard) {
		t.Fatalf("a binding without keys matched")
	}
}
