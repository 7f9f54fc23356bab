package main

import (
	"context"
	"os"

	"github.com/shaharia-lab/goai/observability"
	"github.com/sirupsen/logrus"
)

// logrusLogger adapts logrus to the observability.Logger interface used
// by the library.
type logrusLogger struct {
	entry *logrus.Entry
}

func newLogger(verbose bool) observability.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *logrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }
func (l *logrusLogger) Panic(args ...interface{}) { l.entry.Panic(args...) }

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }
func (l *logrusLogger) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }

func (l *logrusLogger) WithFields(fields map[string]interface{}) observability.Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithContext(ctx context.Context) observability.Logger {
	return &logrusLogger{entry: l.entry.WithContext(ctx)}
}

func (l *logrusLogger) WithErr(err error) observability.Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
