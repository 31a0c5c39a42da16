package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitToJSON(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, false)

	Log.Info().Str("source", "github").Msg("fetched")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "github", line["source"])
	assert.Equal(t, "fetched", line["message"])
	assert.Contains(t, line, "time")
}

func TestInitToConsole(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, true)

	Log.Warn().Msg("stale snapshot")
	assert.Contains(t, buf.String(), "stale snapshot")
}

func TestIsDev(t *testing.T) {
	for env, want := range map[string]bool{"": true, "dev": true, "development": true, "production": false} {
		t.Setenv("ENV", env)
		assert.Equal(t, want, IsDev(), "ENV=%q", env)
	}
}
