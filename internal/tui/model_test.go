package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/router"
	"github.com/jask/ruralcare/internal/session"
)

func fillLogin(t *testing.T, m *Model, phone, password string) {
	t.Helper()
	typeText(t, m, phone)
	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	typeText(t, m, password)
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestLoginPatientOpensDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	if _, ok := m.screen.(*loginScreen); !ok {
		t.Fatalf("initial screen = %T, want *loginScreen", m.screen)
	}

	fillLogin(t, m, "9876543210", "secret")

	if got := m.Router().View(); got != router.Dashboard {
		t.Fatalf("view = %s, want dashboard", got)
	}
	if _, ok := m.screen.(*dashboardScreen); !ok {
		t.Fatalf("screen = %T, want *dashboardScreen", m.screen)
	}
	if got := m.Router().Role(); got != session.Patient {
		t.Fatalf("role = %s, want patient", got)
	}
	if !strings.Contains(m.status, "Ram Kumar") {
		t.Fatalf("status = %q, want welcome for Ram Kumar", m.status)
	}
}

func TestLoginValidationStaysOnForm(t *testing.T) {
	m, _ := newTestModel(t)
	fillLogin(t, m, "98765", "secret")

	s, ok := m.screen.(*loginScreen)
	if !ok {
		t.Fatalf("screen = %T, want *loginScreen", m.screen)
	}
	if s.form.Error != "Please enter a valid phone number" {
		t.Fatalf("form error = %q", s.form.Error)
	}
	if !strings.Contains(m.View(), m.T("auth.phoneInvalid")) {
		t.Fatal("view does not show the translated validation message")
	}
}

func TestLoginFailureShowsGenericMessage(t *testing.T) {
	m, env := newTestModel(t)
	env.auth.err = errors.New("backend down")
	fillLogin(t, m, "9876543210", "secret")

	s := m.screen.(*loginScreen)
	if s.form.Loading {
		t.Fatal("form still loading after failure")
	}
	if s.form.Error != "Login failed. Please check your credentials." {
		t.Fatalf("form error = %q", s.form.Error)
	}
	if s.phone.Value() != "9876543210" {
		t.Fatalf("phone cleared after failure: %q", s.phone.Value())
	}
}

func TestDoctorLoginIsRejected(t *testing.T) {
	m, env := newTestModel(t)
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if s := m.screen.(*loginScreen); s.role != session.Doctor {
		t.Fatalf("role after ctrl+r = %s, want doctor", s.role)
	}

	fillLogin(t, m, "9876543210", "secret")

	if m.Router().State().Session.SignedIn() {
		t.Fatal("doctor should not be signed in")
	}
	s := m.screen.(*loginScreen)
	if s.form.Error != m.T("auth.doctorPortal") {
		t.Fatalf("form error = %q", s.form.Error)
	}
	if env.auth.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", env.auth.logouts)
	}
}

func TestAdminLoginOpensAdminDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	fillLogin(t, m, "9876543210", "secret")

	if got := m.Router().View(); got != router.AdminDashboard {
		t.Fatalf("view = %s, want admin dashboard", got)
	}
	s, ok := m.screen.(*adminScreen)
	if !ok || !s.loaded {
		t.Fatalf("screen = %T loaded=%v, want loaded *adminScreen", m.screen, ok && s.loaded)
	}
	if !strings.Contains(m.View(), "Nabha") {
		t.Fatal("admin view missing village list")
	}
}

func TestCycleLanguageLocalizesLogin(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.Language() != "hi" {
		t.Fatalf("language = %s, want hi", m.Language())
	}
	if got := m.screen.(*loginScreen).phone.Placeholder; got != m.T("auth.phoneNumber") || got == "Phone number" {
		t.Fatalf("placeholder = %q, want Hindi text", got)
	}
}

func TestStaleMessagesAreDropped(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	old := m.gen

	press(t, m, runeKey("r"))
	if m.gen == old {
		t.Fatal("generation did not advance on screen change")
	}
	m.SetStatus("")

	press(t, m, dataMsg{stamp: stamp{gen: old}, key: "upcoming", err: errors.New("late failure")})
	if m.statusErr || m.status != "" {
		t.Fatalf("stale message changed status to %q", m.status)
	}

	press(t, m, dataMsg{stamp: stamp{gen: m.gen}, key: "records", err: errors.New("fresh failure")})
	if !m.statusErr {
		t.Fatal("current-generation error was dropped")
	}
}

func TestScreenContextCancelledOnChange(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	ctx := m.screenCtx
	press(t, m, runeKey("m"))
	select {
	case <-ctx.Done():
	default:
		t.Fatal("previous screen context still live")
	}
}

func TestBackAndLogout(t *testing.T) {
	m, env := signedInModel(t, "patient")

	press(t, m, runeKey("r"))
	if got := m.Router().View(); got != router.HealthRecords {
		t.Fatalf("view = %s, want health records", got)
	}
	press(t, m, runeKey("e"))
	if got := m.Router().View(); got != router.EmergencyInfo {
		t.Fatalf("view = %s, want emergency info", got)
	}
	if !strings.Contains(m.View(), "108") {
		t.Fatal("emergency view missing the emergency number")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.Router().View(); got != router.HealthRecords {
		t.Fatalf("after back view = %s, want health records", got)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.Router().View(); got != router.Dashboard {
		t.Fatalf("after back view = %s, want dashboard", got)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.Router().State().Session.SignedIn() {
		t.Fatal("still signed in after logout")
	}
	if _, ok := m.screen.(*loginScreen); !ok {
		t.Fatalf("screen = %T, want *loginScreen", m.screen)
	}
	if env.auth.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", env.auth.logouts)
	}
}

func TestLogoutFailureShowsError(t *testing.T) {
	m, env := signedInModel(t, "patient")
	env.auth.logoutErr = errors.New("session store locked")
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.Router().State().Session.SignedIn() {
		t.Fatal("still signed in after logout")
	}
	if !m.statusErr || m.status != "session store locked" {
		t.Fatalf("status = %q err=%v", m.status, m.statusErr)
	}
}

func TestLogoutSuccessKeepsStatus(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.statusErr || m.status != m.T("common.logout") {
		t.Fatalf("status = %q err=%v", m.status, m.statusErr)
	}
}

func TestSearchCapturesGlobalKeys(t *testing.T) {
	m, _ := signedInModel(t, "admin")

	press(t, m, runeKey("/"))
	typeText(t, m, "q")
	if m.quitting {
		t.Fatal("q quit while the search box was focused")
	}
	s := m.screen.(*adminScreen)
	if s.search.Value() != "q" {
		t.Fatalf("search = %q, want q", s.search.Value())
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, runeKey("q"))
	if !m.quitting {
		t.Fatal("q did not quit once the search box was closed")
	}
}

func TestRecordsSyncClearsBadge(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, runeKey("r"))

	s := m.screen.(*recordsScreen)
	if got := care.Unsynced(s.all); got != 1 {
		t.Fatalf("unsynced = %d, want 1", got)
	}
	if s.shown[0].ID != "r2" {
		t.Fatalf("first record = %s, want newest r2", s.shown[0].ID)
	}

	press(t, m, runeKey("y"))
	if got := care.Unsynced(s.all); got != 0 {
		t.Fatalf("unsynced after sync = %d, want 0", got)
	}
	if m.statusErr {
		t.Fatalf("sync reported error: %s", m.status)
	}
}

func TestRecordsSyncFailureKeepsBadge(t *testing.T) {
	m, env := signedInModel(t, "patient")
	env.catalog.syncErr = errFakeSync
	press(t, m, runeKey("r"))
	press(t, m, runeKey("y"))

	s := m.screen.(*recordsScreen)
	if got := care.Unsynced(s.all); got != 1 {
		t.Fatalf("unsynced = %d, want 1", got)
	}
	if !m.statusErr || !strings.Contains(m.status, "offline") {
		t.Fatalf("status = %q err=%v", m.status, m.statusErr)
	}
}

func TestRecordsKindFilter(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, runeKey("r"))
	press(t, m, runeKey("f"))
	press(t, m, runeKey("f"))

	s := m.screen.(*recordsScreen)
	if s.kind != care.KindLabResult {
		t.Fatalf("kind = %s, want lab-result", s.kind)
	}
	if len(s.shown) != 1 || s.shown[0].ID != "r1" {
		t.Fatalf("shown = %+v, want only r1", s.shown)
	}
}

func TestBookingFlowStartsCall(t *testing.T) {
	m, env := signedInModel(t, "patient")

	press(t, m, runeKey("a"))
	if got := m.Router().State().CallType; got != care.CallAudio {
		t.Fatalf("call type = %s, want audio", got)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Router().View(); got != router.AppointmentScheduler {
		t.Fatalf("view = %s, want scheduler", got)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Router().View(); got != router.VideoCall {
		t.Fatalf("view = %s, want video call (status %q)", got, m.status)
	}
	if len(env.booker.booked) != 1 || env.booker.booked[0].Time != "9:00 AM" {
		t.Fatalf("booked = %+v", env.booker.booked)
	}

	s := m.screen.(*callScreen)
	if s.call.Type != care.CallAudio || s.call.Video {
		t.Fatalf("call = %+v, want audio without video", s.call)
	}
	press(t, m, callTickMsg{stamp{gen: m.gen}})
	press(t, m, callTickMsg{stamp{gen: m.gen - 1}})
	if s.call.Duration != time.Second {
		t.Fatalf("duration = %s, want 1s", s.call.Duration)
	}

	press(t, m, runeKey("c"))
	typeText(t, m, "hello e")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Router().View() != router.VideoCall {
		t.Fatal("typing in chat ended the call")
	}
	if last := s.call.Messages[len(s.call.Messages)-1]; last.Text != "hello e" {
		t.Fatalf("last message = %+v", last)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	press(t, m, runeKey("e"))
	if got := m.Router().View(); got != router.Dashboard {
		t.Fatalf("view = %s, want dashboard", got)
	}
	if !strings.Contains(m.status, "00:01") {
		t.Fatalf("status = %q, want call duration", m.status)
	}
}

func TestSymptomCheckerBooksConsultation(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, runeKey("s"))

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.statusErr {
		t.Fatal("empty report was analyzed")
	}

	press(t, m, runeKey("1"))
	press(t, m, runeKey("3"))
	s := m.screen.(*symptomsScreen)
	if len(s.report.Selected) != 2 {
		t.Fatalf("selected = %v", s.report.Selected)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if s.step != stepResults {
		t.Fatalf("step = %d, want results", s.step)
	}
	if s.result.PrimaryCondition != "Common Cold" || s.pct != 100 {
		t.Fatalf("result = %+v pct=%d", s.result, s.pct)
	}

	press(t, m, runeKey("b"))
	st := m.Router().State()
	if st.View != router.DoctorSelection || st.Urgency != care.Urgent {
		t.Fatalf("state = %s/%s, want doctor selection with urgent", st.View, st.Urgency)
	}
}

func TestSymptomCheckerSendsPatientDetails(t *testing.T) {
	m, env := signedInModel(t, "patient")
	press(t, m, runeKey("s"))
	s := m.screen.(*symptomsScreen)
	if s.report.Severity != "mild" {
		t.Fatalf("severity = %q, want mild by default", s.report.Severity)
	}

	press(t, m, runeKey("a"))
	if m.ActiveScope() != scopeSearch {
		t.Fatalf("scope = %s, want text entry while editing age", m.ActiveScope())
	}
	typeText(t, m, "42")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runeKey("g"))
	press(t, m, runeKey("g"))
	press(t, m, runeKey("d"))
	press(t, m, runeKey("v"))
	press(t, m, runeKey("v"))
	press(t, m, runeKey("2"))
	if view := m.View(); !strings.Contains(view, "A few hours") || !strings.Contains(view, "female") {
		t.Fatalf("details missing from view:\n%s", view)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	got := env.analyzer.last
	if got.Age != "42" || got.Gender != "female" || got.Duration != "few_hours" || got.Severity != "severe" {
		t.Fatalf("report = %+v", got)
	}
	if s.step != stepResults {
		t.Fatalf("step = %d, want results", s.step)
	}

	press(t, m, runeKey("n"))
	if s.report.Severity != "mild" || s.report.Gender != "" || s.age.Value() != "" {
		t.Fatalf("restart kept details %+v age=%q", s.report, s.age.Value())
	}
}

func TestSymptomCheckerRejectsBadAge(t *testing.T) {
	m, env := signedInModel(t, "patient")
	press(t, m, runeKey("s"))
	press(t, m, runeKey("a"))
	typeText(t, m, "abc")
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	press(t, m, runeKey("1"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.statusErr || env.analyzer.last.Selected != nil {
		t.Fatalf("bad age was analyzed: status=%q", m.status)
	}
}

func TestMedicineStockFollowsCursor(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	press(t, m, runeKey("m"))

	s := m.screen.(*medicineScreen)
	if s.stockFor != "m1" {
		t.Fatalf("stock for = %q, want m1", s.stockFor)
	}
	if len(s.stock) != 2 || s.stock[0].Pharmacy.Name != "Near" {
		t.Fatalf("stock = %+v, want nearest first", s.stock)
	}

	press(t, m, runeKey("o"))
	if s.stock[0].Price != 20 {
		t.Fatalf("after price sort first price = %d", s.stock[0].Price)
	}

	press(t, m, runeKey("j"))
	if s.stockFor != "m2" {
		t.Fatalf("stock for = %q, want m2", s.stockFor)
	}

	press(t, m, runeKey("p"))
	if got := m.Router().View(); got != router.PharmacyLocator {
		t.Fatalf("view = %s, want pharmacy locator", got)
	}
	p := m.screen.(*pharmacyScreen)
	if len(p.shown) != 1 {
		t.Fatalf("pharmacies within 10km = %d, want 1", len(p.shown))
	}
	press(t, m, runeKey("d"))
	if p.radius != 25 || len(p.shown) != 2 {
		t.Fatalf("radius = %v shown = %d", p.radius, len(p.shown))
	}
}

func TestViewRightAlignsUrdu(t *testing.T) {
	m, _ := signedInModel(t, "patient")
	m.lang = "ur"
	if out := m.View(); out == "" {
		t.Fatal("empty view")
	}
}
