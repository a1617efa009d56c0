package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/ruralcare/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := New(config.LogConfig{Path: path, Level: "info"})
	require.NoError(t, err)
	log.Info().Str("view", "dashboard").Msg("navigate")
	log.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"view":"dashboard"`)
	require.NotContains(t, string(data), "hidden")
}

func TestDebugUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, zerolog.DebugLevel)
	log.Debug().Msg("tick")
	require.False(t, strings.HasPrefix(buf.String(), "{"))
	require.Contains(t, buf.String(), "tick")
}

func TestMaskPhone(t *testing.T) {
	require.Equal(t, "******3210", MaskPhone("98765 43210"))
	require.Equal(t, "***", MaskPhone("123"))
	require.Equal(t, "", MaskPhone(""))
}
