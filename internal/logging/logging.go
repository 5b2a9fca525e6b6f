// Package logging builds the logrus loggers used across Rewind.
package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the minimum level and output format.
type Options struct {
	Level  string `json:"level" env:"LEVEL"`
	Format string `json:"format" env:"FORMAT"`
}

// DefaultOptions logs at info level in text form.
func DefaultOptions() Options {
	return Options{Level: "info", Format: FormatText}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	l.Out = w

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
	}
	l.Level = lvl

	switch opts.Format {
	case "", FormatText:
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	case FormatJSON:
		l.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, errors.Errorf("unknown log format %q, must be one of: text, json", opts.Format)
	}
	return l, nil
}

// Discard returns a logger that drops everything. Engines fall back to it
// when no logger is supplied.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return l
}
