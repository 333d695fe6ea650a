package mylog

import (
	"context"

	"github.com/rs/zerolog"
)

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

var New func(name string) Logger

type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}

func (s Severity) level() zerolog.Level {
	switch s {
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityWarn:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
