package logger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json respects level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(&buf, "warn", "json")
		require.NoError(t, err)
		l.Info("hidden")
		l.Warn("shown", "need", "ArkiverbarSøknad")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"need":"ArkiverbarSøknad"`)
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(&buf, "debug", "text")
		require.NoError(t, err)
		l.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "info", "xml")
		assert.EqualError(t, err, `unknown log format "xml"`)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "loud", "json")
		assert.EqualError(t, err, `unknown log level "loud"`)
	})
}

func TestNewSecureTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewSecure(&buf, "info")
	require.NoError(t, err)
	l.Info("payload", "ident", "12345678910")
	assert.Contains(t, buf.String(), `"log_type":"secure"`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lvl)
}

func TestOpenSecure(t *testing.T) {
	w, err := OpenSecure(filepath.Join(t.TempDir(), "secure.log"))
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
