package tui

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/i18n"
	"github.com/jask/ruralcare/internal/session"
)

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fakeAuth struct {
	user      session.User
	err       error
	logoutErr error
	logouts   int
}

func (a *fakeAuth) Login(ctx context.Context, creds session.Credentials, role session.Role) (session.User, error) {
	if err := creds.Validate(); err != nil {
		return session.User{}, err
	}
	if a.err != nil {
		return session.User{}, a.err
	}
	u := a.user
	u.Role = role.String()
	u.Phone = creds.Phone
	return u, nil
}

func (a *fakeAuth) Restore(context.Context) (session.User, bool, error) { return a.user, true, nil }

func (a *fakeAuth) Logout(context.Context) error {
	a.logouts++
	return a.logoutErr
}

var errFakeSync = errors.New("sync offline")

type fakeCatalog struct {
	records []care.HealthRecord
	syncErr error
}

func (c *fakeCatalog) Doctors(context.Context) ([]care.Doctor, error) {
	return []care.Doctor{
		{ID: "d1", Name: "Dr. Rajesh Sharma", Specialization: "General Medicine", Rating: 4.8, Languages: []string{"Hindi", "English"}, Availability: care.Available},
		{ID: "d2", Name: "Dr. Priya Kaur", Specialization: "Pediatrics", Rating: 4.9, Languages: []string{"Punjabi"}, Availability: care.Busy},
	}, nil
}

func (c *fakeCatalog) Pharmacies(context.Context) ([]care.Pharmacy, error) {
	return []care.Pharmacy{
		{ID: "p1", Name: "Nabha Medical Store", DistanceKM: 0.5, Open: true},
		{ID: "p2", Name: "Patiala Pharmacy", DistanceKM: 18},
	}, nil
}

func (c *fakeCatalog) Medicines(context.Context) ([]care.Medicine, error) {
	return []care.Medicine{
		{ID: "m1", Name: "Paracetamol", GenericName: "Acetaminophen", Category: "Pain Relief"},
		{ID: "m2", Name: "Metformin", GenericName: "Metformin Hydrochloride", Category: "Diabetes"},
	}, nil
}

func (c *fakeCatalog) Stock(_ context.Context, id string) ([]care.Stock, error) {
	return []care.Stock{
		{MedicineID: id, Pharmacy: care.Pharmacy{Name: "Far", DistanceKM: 9}, Units: 40, Price: 20},
		{MedicineID: id, Pharmacy: care.Pharmacy{Name: "Near", DistanceKM: 1}, Units: 3, Price: 30},
	}, nil
}

func (c *fakeCatalog) Records(context.Context) ([]care.HealthRecord, error) {
	return c.records, nil
}

func (c *fakeCatalog) SyncRecords(context.Context) (int64, error) {
	if c.syncErr != nil {
		return 0, c.syncErr
	}
	return int64(care.Unsynced(c.records)), nil
}

func (c *fakeCatalog) Emergency(context.Context) (care.EmergencyProfile, error) {
	return care.EmergencyProfile{
		Contacts: []care.EmergencyContact{{Name: "Sunita Kumar", Phone: "+91 98765 43211", Relation: "Wife"}},
		Alerts:   []care.MedicalAlert{{Kind: "Allergy", Description: "Penicillin", Severity: care.SeverityCritical}},
	}, nil
}

func (c *fakeCatalog) Overview(context.Context) (care.AdminOverview, error) {
	return care.AdminOverview{
		Trend:    []care.MonthlyConsultations{{Month: "Jan", Consultations: 100}, {Month: "Feb", Consultations: 120}},
		Users:    map[string]int{"patients": 10, "doctors": 2},
		Villages: []care.VillageStat{{Village: "Nabha", Patients: 9, Status: "active"}, {Village: "Bhadson", Patients: 4, Status: "active"}},
	}, nil
}

type fakeBooker struct {
	booked []care.Appointment
}

func (b *fakeBooker) Book(_ context.Context, req care.AppointmentRequest, _ string) (care.Appointment, error) {
	a, err := care.NewAppointment("appt-1", req, testNow)
	if err != nil {
		return care.Appointment{}, err
	}
	b.booked = append(b.booked, a)
	return a, nil
}

func (b *fakeBooker) Upcoming(context.Context, string) ([]care.Appointment, error) {
	return b.booked, nil
}

type fakeAnalyzer struct {
	last care.SymptomReport
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, report care.SymptomReport, progress func(int)) (care.Analysis, error) {
	a.last = report
	if err := report.Validate(); err != nil {
		return care.Analysis{}, err
	}
	for _, pct := range []int{50, 100} {
		if progress != nil {
			progress(pct)
		}
	}
	return care.Analysis{PrimaryCondition: "Common Cold", Confidence: 80, Urgency: "high"}, nil
}

type testEnv struct {
	auth    *fakeAuth
	catalog *fakeCatalog
	booker   *fakeBooker
	analyzer *fakeAnalyzer
}

func newTestModel(t *testing.T) (*Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		auth: &fakeAuth{user: session.User{ID: "u1", Name: "Ram Kumar", Village: "Nabha"}},
		catalog: &fakeCatalog{records: []care.HealthRecord{
			{ID: "r1", Kind: care.KindLabResult, Title: "Blood Test", Date: testNow.AddDate(0, 0, -3), Status: "normal", Synced: true},
			{ID: "r2", Kind: care.KindPrescription, Title: "Amoxicillin", Date: testNow.AddDate(0, 0, -1), Status: "active"},
		}},
		booker:   &fakeBooker{},
		analyzer: &fakeAnalyzer{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := New(ctx, Deps{
		Auth:            env.auth,
		Analyzer:        env.analyzer,
		Booking:         env.booker,
		Catalog:         env.catalog,
		Logger:          zerolog.Nop(),
		Now:             func() time.Time { return testNow },
		Rand:            rand.New(rand.NewSource(1)),
		PatientName:     "Ram Kumar",
		QualityInterval: time.Hour,
	}, i18n.MustLoad(), i18n.English)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drain(t, m, m.Init())
	return m, env
}

func signedInModel(t *testing.T, role string) (*Model, *testEnv) {
	t.Helper()
	m, env := newTestModel(t)
	u := env.auth.user
	u.Role = role
	if err := m.Restore(u); err != nil {
		t.Fatalf("Restore(%s): %v", role, err)
	}
	drain(t, m, m.Init())
	return m, env
}

func runeKey(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, runeKey(string(r)))
	}
}

// drain runs commands and feeds their messages back into the model. Commands that do
// not finish promptly (cursor blinks, spinner frames, call timers) are dropped.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 256 {
			t.Fatal("command chain exceeded max depth")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runQuick(next)
		if !ok || msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		_, follow := m.Update(msg)
		queue = append(queue, follow)
	}
}

func runQuick(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}
