package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	log := New("debug", "json")
	buf := &bytes.Buffer{}
	log.SetOutput(buf)

	log.WithField("report_id", "r1").Debug("snapshot published")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "snapshot published", entry["message"])
	assert.Equal(t, "r1", entry["report_id"])
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := New("verbose", "text")

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
