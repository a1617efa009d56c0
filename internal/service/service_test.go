package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/database"
	"github.com/jask/ruralcare/internal/database/repository"
	"github.com/jask/ruralcare/internal/prefs"
	"github.com/jask/ruralcare/internal/secrets"
	"github.com/jask/ruralcare/internal/session"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Prepare(context.Background(), filepath.Join(t.TempDir(), "care.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(t *testing.T) (*SimulatedAuth, *prefs.Store) {
	t.Helper()
	sealer, err := secrets.NewSealer("svc-test")
	require.NoError(t, err)
	store := prefs.New(repository.NewPreferenceRepo(openDB(t)), sealer)
	return &SimulatedAuth{Users: store, Logger: zerolog.Nop()}, store
}

var goodCreds = session.Credentials{Phone: "9876543210", Password: "secret"}

func TestLoginPersistsUserPerRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, store := newAuth(t)

	u, err := auth.Login(ctx, goodCreds, session.Patient)
	require.NoError(t, err)
	require.Equal(t, "Ram Kumar", u.Name)
	require.Equal(t, "Nabha", u.Village)
	require.Equal(t, session.Patient, u.RoleOf())
	require.NotEmpty(t, u.ID)

	stored, ok, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u, stored)

	d, err := auth.Login(ctx, goodCreds, session.Doctor)
	require.NoError(t, err)
	require.Equal(t, "General Medicine", d.Specialization)

	a, err := auth.Login(ctx, goodCreds, session.Admin)
	require.NoError(t, err)
	require.Equal(t, session.Admin, a.RoleOf())
}

func TestLoginValidatesBeforeWaiting(t *testing.T) {
	t.Parallel()
	auth, _ := newAuth(t)
	auth.Delay = time.Hour

	_, err := auth.Login(context.Background(), session.Credentials{Password: "x"}, session.Patient)
	var verr *session.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Phone number is required", verr.Message)

	_, err = auth.Login(context.Background(), goodCreds, session.Anonymous)
	require.ErrorIs(t, err, ErrLoginFailed)
}

func TestLoginHonorsCancellation(t *testing.T) {
	t.Parallel()
	auth, store := newAuth(t)
	auth.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := auth.Login(ctx, goodCreds, session.Patient)
	require.ErrorIs(t, err, context.Canceled)

	_, ok, err := store.LoadUser(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoginChecksPasswordHash(t *testing.T) {
	t.Parallel()
	auth, _ := newAuth(t)
	hash, err := HashPassword("letmein")
	require.NoError(t, err)
	auth.PasswordHash = hash

	_, err = auth.Login(context.Background(), goodCreds, session.Patient)
	require.ErrorIs(t, err, ErrLoginFailed)

	_, err = auth.Login(context.Background(), session.Credentials{Phone: "9876543210", Password: "letmein"}, session.Patient)
	require.NoError(t, err)
}

func TestRestoreAndLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, store := newAuth(t)

	_, ok, err := auth.Restore(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	u, err := auth.Login(ctx, goodCreds, session.Admin)
	require.NoError(t, err)
	require.NoError(t, store.SaveLanguage(ctx, "ur"))

	got, ok, err := auth.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, auth.Logout(ctx))
	_, ok, err = auth.Restore(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	lang, err := store.LoadLanguage(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "ur", lang)
}

func TestRestoreDiscardsUnknownRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	auth, store := newAuth(t)
	require.NoError(t, store.SaveUser(ctx, session.User{ID: "x", Role: "pharmacist"}))

	_, ok, err := auth.Restore(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = store.LoadUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAnalyzerProgress(t *testing.T) {
	t.Parallel()
	a := &SimulatedAnalyzer{Logger: zerolog.Nop()}

	var mu sync.Mutex
	var seen []int
	res, err := a.Analyze(context.Background(), care.SymptomReport{Selected: []string{"fever"}}, func(p int) {
		mu.Lock()
		seen = append(seen, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, seen)
	require.Equal(t, 85, res.Confidence)
	require.Equal(t, "moderate", res.Urgency)
	require.Len(t, res.RedFlags, 4)
	require.Equal(t, care.Routine, res.ConsultUrgency())
}

func TestAnalyzerLogsPatientDetails(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	a := &SimulatedAnalyzer{Logger: zerolog.New(&buf)}
	report := care.SymptomReport{Selected: []string{"cough"}, Age: "67", Gender: "male", Duration: "1_week", Severity: "severe"}
	_, err := a.Analyze(context.Background(), report, nil)
	require.NoError(t, err)

	first, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(first, &entry))
	require.Equal(t, "analysis started", entry["message"])
	require.Equal(t, "67", entry["age"])
	require.Equal(t, "male", entry["gender"])
	require.Equal(t, "1_week", entry["duration"])
	require.Equal(t, "severe", entry["severity"])
}

func TestAnalyzerRejectsEmptyReportAndCancels(t *testing.T) {
	t.Parallel()
	a := &SimulatedAnalyzer{Step: time.Hour, Logger: zerolog.Nop()}

	_, err := a.Analyze(context.Background(), care.SymptomReport{Description: "  "}, nil)
	require.ErrorIs(t, err, care.ErrNoSymptoms)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = a.Analyze(ctx, care.SymptomReport{Description: "cough"}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBookingService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	now := time.Date(2030, 3, 4, 8, 15, 0, 0, time.UTC)
	svc := &BookingService{
		Appointments: repository.NewAppointmentRepo(db),
		Now:          func() time.Time { return now },
		Logger:       zerolog.Nop(),
	}
	doc, err := repository.NewDoctorRepo(db).Get(ctx, database.StableID("doctor", "Dr. Rajesh Kumar"))
	require.NoError(t, err)

	req := care.AppointmentRequest{Doctor: doc, Date: now, Time: "9:00 AM", CallType: care.CallVideo, Urgency: care.Urgent, Symptoms: " chest pain "}
	a, err := svc.Book(ctx, req, "p1")
	require.NoError(t, err)
	require.Equal(t, 350, a.Fee)
	require.Equal(t, "chest pain", a.Symptoms)

	_, err = svc.Book(ctx, req, "p2")
	require.ErrorIs(t, err, ErrSlotTaken)

	req.Time = "8:00 AM"
	_, err = svc.Book(ctx, req, "p1")
	require.ErrorIs(t, err, care.ErrInvalidAppointment)

	up, err := svc.Upcoming(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, up, 1)
	require.Equal(t, a.ID, up[0].ID)
}

func TestCatalogOverviewAndSync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	svc := &CatalogService{
		DoctorRepo:   repository.NewDoctorRepo(db),
		PharmacyRepo: repository.NewPharmacyRepo(db),
		RecordRepo:   repository.NewRecordRepo(db),
		AdminRepo:    repository.NewAdminRepo(db),
		Logger:       zerolog.Nop(),
	}

	o, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 156, o.Health.ActiveConnections)
	require.Equal(t, 2526, o.TotalConsultations())

	n, err := svc.SyncRecords(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestMaintenanceResetReseeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, repository.NewPreferenceRepo(db).Put(ctx, prefs.KeyLanguage, []byte("hi")))

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))

	_, err := repository.NewPreferenceRepo(db).Get(ctx, prefs.KeyLanguage)
	require.ErrorIs(t, err, repository.ErrNotFound)
	docs, err := repository.NewDoctorRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 4)
}
