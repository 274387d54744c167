package api

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLogrus(buf *bytes.Buffer) *log.Logger {
	l := log.New()
	l.SetOutput(buf)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return l
}

func TestLogrusLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(newTestLogrus(&buf))

	logger.SetLevel(LogWarn)
	assert.Equal(t, LogWarn, logger.GetLevel())

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.Error("failed: %s", "boom")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown 2")
	assert.Contains(t, output, "failed: boom")
	assert.Contains(t, output, "level=error")
}

func TestLogrusLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusLogger(newTestLogrus(&buf))
	logger.SetLevel(LogDebug)

	logger.WithField("request_id", "abc").Debug("fetch page %d", 3)

	output := buf.String()
	assert.Contains(t, output, "fetch page 3")
	assert.Contains(t, output, "request_id=abc")
	assert.Equal(t, LogDebug, logger.GetLevel())
}

func TestLogrusLogger_ImplementsLogger(t *testing.T) {
	var _ Logger = NewLogrusLogger(nil)
	var _ Logger = NewNoOpLogger()
}
