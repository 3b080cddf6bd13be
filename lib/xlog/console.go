package xlog

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/gravitational/uitest/lib/defaults"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConsoleLogger returns logger which writes everything to out plus console for events above certain level.
// With nil out only console events are kept
func ConsoleLogger(consoleLevel logrus.Level, out io.Writer) *logrus.Logger {
	return newConsoleLogger(os.Stderr, consoleLevel, out)
}

// FileOutput returns a size-rotated log file writer
func FileOutput(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    defaults.LogFileMaxSizeMB,
		MaxBackups: defaults.LogFileMaxBackups,
	}
}

func newConsoleLogger(console io.Writer, consoleLevel logrus.Level, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Level = logrus.DebugLevel
	log.Out = ioutil.Discard
	if out != nil {
		log.Out = out
		log.Formatter = &logrus.JSONFormatter{}
	}

	consoleLog := logrus.New()
	consoleLog.Out = console
	consoleLog.Level = consoleLevel
	log.Hooks.Add(&consoleHook{consoleLog, consoleLevel})

	return log
}

type consoleHook struct {
	console *logrus.Logger
	level   logrus.Level
}

func (hook *consoleHook) Fire(e *logrus.Entry) error {
	if e.Level > hook.level {
		return nil
	}

	var log logrus.FieldLogger
	if e.Data != nil {
		log = hook.console.WithFields(e.Data)
	} else {
		log = hook.console
	}

	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		// the originating logger panics or exits on its own
		log.Error(e.Message)
	case logrus.ErrorLevel:
		log.Error(e.Message)
	case logrus.WarnLevel:
		log.Warn(e.Message)
	case logrus.InfoLevel:
		log.Info(e.Message)
	case logrus.DebugLevel:
		log.Debug(e.Message)
	}

	return nil
}

// Levels returns logging levels supported by logrus
func (hook *consoleHook) Levels() []logrus.Level {
	return allLevels
}

var allLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
}
