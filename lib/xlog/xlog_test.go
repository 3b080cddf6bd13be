package xlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLoggerLevels(t *testing.T) {
	var console, file bytes.Buffer
	log := newConsoleLogger(&console, logrus.WarnLevel, &file)

	log.WithField("locator", "#btnSubmit").Info("step")
	assert.Contains(t, file.String(), `"locator":"#btnSubmit"`)
	assert.Empty(t, console.String())

	log.Warn("step failed")
	assert.Contains(t, file.String(), "step failed")
	assert.Contains(t, console.String(), "step failed")
}

func TestConsoleLoggerWithoutFile(t *testing.T) {
	var console bytes.Buffer
	log := newConsoleLogger(&console, logrus.InfoLevel, nil)

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestPayloadDropsCommonFields(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{
		"suite": "acceptance",
		"op":    "click",
		"error": errors.New("element not interactable"),
	})
	entry.Message = "unsuccessful attempt"

	p := payload(entry, logrus.Fields{"suite": "acceptance"})

	assert.NotContains(t, p, "suite")
	assert.Equal(t, "click", p["op"])
	assert.Equal(t, "element not interactable", p["error"])
	assert.Equal(t, "unsuccessful attempt", p["message"])
}

func TestLabels(t *testing.T) {
	got := labels(logrus.Fields{"browser": "chrome", "attempts": 3})
	assert.Equal(t, map[string]string{"browser": "chrome", "attempts": "3"}, got)
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "/uimodel/page/actions.go", shortPath("/src/uitest/e2e/uimodel/page/actions.go"))
	assert.Equal(t, "main", shortPath("main"))
}

func TestNewGCLClientRequiresProject(t *testing.T) {
	_, err := NewGCLClient(context.Background(), "")
	require.Error(t, err)
}

type testLog struct {
	testing.TB
	lines []string
}

func (l *testLog) Helper() {}

func (l *testLog) Name() string { return "TestLog" }

func (l *testLog) Log(args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprint(args...))
}

func TestTestingHook(t *testing.T) {
	tl := &testLog{TB: t}
	log := NewLogger(nil, tl, logrus.Fields{"suite": "acceptance"})

	log.Debug("retry in 250ms")

	require.Len(t, tl.lines, 1)
	assert.Contains(t, tl.lines[0], "retry in 250ms")
	assert.Contains(t, tl.lines[0], "suite:acceptance")
}
