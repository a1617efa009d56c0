package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/ruralcare/internal/database"
	"github.com/jask/ruralcare/internal/database/repository"
	"github.com/jask/ruralcare/internal/secrets"
	"github.com/jask/ruralcare/internal/session"
)

func newStore(t *testing.T) (*Store, *repository.PreferenceRepo) {
	t.Helper()
	db, err := database.Prepare(context.Background(), filepath.Join(t.TempDir(), "care.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sealer, err := secrets.NewSealer("prefs-test")
	require.NoError(t, err)
	repo := repository.NewPreferenceRepo(db)
	return New(repo, sealer), repo
}

func TestUserRoundTripIsSealed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, repo := newStore(t)

	_, ok, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	u := session.User{ID: "1", Name: "Ram Kumar", Phone: "9876543210", Role: "patient", Village: "Nabha", Verified: true}
	require.NoError(t, s.SaveUser(ctx, u))

	raw, err := repo.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "9876543210")

	got, ok, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u, got)
}

func TestClearUserKeepsLanguage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.SaveUser(ctx, session.User{ID: "1", Role: "admin"}))
	require.NoError(t, s.SaveLanguage(ctx, "pa"))
	require.NoError(t, s.ClearUser(ctx))

	_, ok, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	lang, err := s.LoadLanguage(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "pa", lang)
}

func TestLoadLanguageFallback(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t)
	lang, err := s.LoadLanguage(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "hi", lang)
}

func TestCorruptUserIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, repo := newStore(t)

	require.NoError(t, repo.Put(ctx, KeyUser, []byte("garbage")))
	_, ok, err := s.LoadUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.Get(ctx, KeyUser)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
