package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RURALCARE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "ruralcare", "ruralcare.db"), cfg.Database.Path)
	require.Equal(t, "en", cfg.UI.Language)
	require.Equal(t, "Ram Kumar", cfg.UI.PatientName)
	require.Equal(t, 1500*time.Millisecond, cfg.Sim.LoginDelay)
	require.Equal(t, 10*time.Second, cfg.Sim.QualityInterval)
	require.Empty(t, cfg.Auth.PasswordHash)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RURALCARE_CONFIG", "")
	t.Setenv("RURALCARE_UI_LANGUAGE", "pa")
	t.Setenv("RURALCARE_SIM_LOGIN_DELAY", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "pa", cfg.UI.Language)
	require.Zero(t, cfg.Sim.LoginDelay)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("RURALCARE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.Language = "ur"
	cfg.Sim.AnalysisStep = 50 * time.Millisecond
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ur", got.UI.Language)
	require.Equal(t, 50*time.Millisecond, got.Sim.AnalysisStep)
}
