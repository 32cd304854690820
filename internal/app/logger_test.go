package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "development", LogFormat: "json"})

	logger.Info("boot", "addr", ":8080")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boot", line["msg"])
	assert.Equal(t, ":8080", line["addr"])
}

func TestNewLoggerPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "development", LogFormat: "pretty"})

	logger.Info("boot")

	assert.False(t, json.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), "msg=boot")
}

func TestNewLoggerProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "production", LogFormat: "json"})

	logger.Debug("noisy detail")
	assert.Empty(t, buf.String())

	logger.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerDevelopmentKeepsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "development", LogFormat: "pretty"})

	logger.Debug("verbose startup trace")
	assert.Contains(t, buf.String(), "verbose startup trace")
}
