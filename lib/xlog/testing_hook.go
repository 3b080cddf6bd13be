package xlog

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestingHook mirrors log entries into the test log
type TestingHook struct {
	t testing.TB
}

// NewTestingHook returns a hook logging to t
func NewTestingHook(t testing.TB) *TestingHook {
	return &TestingHook{t}
}

func (hook *TestingHook) Fire(e *logrus.Entry) error {
	hook.t.Helper()
	hook.t.Log(e.Message, fmt.Sprint(e.Data))
	return nil
}

// Levels returns logging levels supported by logrus
func (hook *TestingHook) Levels() []logrus.Level {
	return allLevels
}

// NewLogger returns logger which also prints everything to the test log.
// With a client, entries are forwarded to cloud logging under the test name
func NewLogger(client *GCLClient, t testing.TB, commonFields logrus.Fields) logrus.FieldLogger {
	log := ConsoleLogger(logrus.InfoLevel, nil)

	if client != nil {
		log.Hooks.Add(client.Hook(t.Name(), commonFields))
	}
	log.Hooks.Add(&TestingHook{t})
	return log.WithFields(commonFields)
}
