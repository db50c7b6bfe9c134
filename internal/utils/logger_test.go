package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewLogger(LoggerOptions{Level: level, Format: "json", Output: buf})
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "warn")

	log.Info().Msg("filtered")
	log.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "kept")
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf, Verbose: true})

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewDefaultLogger(t *testing.T) {
	log := NewDefaultLogger()
	require.NotNil(t, log)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "info")

	log.WithComponent("orchestrator").Info().Msg("a")
	log.WithSpec("org/repo+main:f.yml").Info().Msg("b")
	log.WithTransport("archive").Info().Msg("c")

	out := buf.String()
	assert.Contains(t, out, `"component":"orchestrator"`)
	assert.Contains(t, out, `"spec":"org/repo+main:f.yml"`)
	assert.Contains(t, out, `"transport":"archive"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("anything-else"))
}
