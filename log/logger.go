// Package log provides a category-aware logger for the WebDriver client.
package log

import (
	"io"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus and tags every entry with a category, so that the
// protocol, session and process layers can be filtered independently.
type Logger struct {
	*logrus.Logger

	categoryFilter *regexp.Regexp
}

// New returns a Logger writing through the given logrus logger.
func New(ll *logrus.Logger) *Logger {
	return &Logger{Logger: ll}
}

// NewNullLogger returns a Logger that discards everything. Useful in tests.
func NewNullLogger() *Logger {
	ll := logrus.New()
	ll.SetOutput(io.Discard)
	return New(ll)
}

// SetCategoryFilter limits output to categories matching pattern.
func (l *Logger) SetCategoryFilter(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	l.categoryFilter = re
	return nil
}

// SetLevel sets the logger level from a level string ("debug", "info", ...).
func (l *Logger) SetLevel(level string) error {
	pl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.Logger.SetLevel(pl)
	return nil
}

// DebugMode returns true if the logger level is set to Debug or higher.
func (l *Logger) DebugMode() bool {
	return l.Logger.GetLevel() >= logrus.DebugLevel
}

// Debugf logs a debug entry under the given category.
func (l *Logger) Debugf(category, msg string, args ...any) {
	l.Logf(logrus.DebugLevel, category, msg, args...)
}

// Infof logs an info entry under the given category.
func (l *Logger) Infof(category, msg string, args ...any) {
	l.Logf(logrus.InfoLevel, category, msg, args...)
}

// Warnf logs a warning entry under the given category.
func (l *Logger) Warnf(category, msg string, args ...any) {
	l.Logf(logrus.WarnLevel, category, msg, args...)
}

// Errorf logs an error entry under the given category.
func (l *Logger) Errorf(category, msg string, args ...any) {
	l.Logf(logrus.ErrorLevel, category, msg, args...)
}

// Logf logs an entry under the given category, honoring the category filter.
func (l *Logger) Logf(level logrus.Level, category, msg string, args ...any) {
	if l.categoryFilter != nil && !l.categoryFilter.MatchString(category) {
		return
	}
	l.WithField("category", category).Logf(level, msg, args...)
}
