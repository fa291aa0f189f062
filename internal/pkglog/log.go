// Package pkglog wraps logrus so every subsystem logs through the same
// structured facade instead of scattered fmt.Println diagnostics.
// Nil-safe: a nil *Logger silently drops everything, so components that
// run without a scheduler-provided logger (unit tests, bare library use)
// don't need a no-op stub.
package pkglog

import "github.com/sirupsen/logrus"

// Logger scopes a logrus entry to one component within one vehicle.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger for the named component, tagging every record with
// it so multi-vehicle logs stay attributable.
func New(component string) *Logger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: base.WithField("component", component)}
}

// WithVehicle scopes the logger further to a named vehicle instance.
func (l *Logger) WithVehicle(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{entry: l.entry.WithField("vehicle", name)}
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry.Errorf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry.Infof(format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.entry.Debugf(format, args...)
}
