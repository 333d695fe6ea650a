package mylog

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	logger zerolog.Logger
}

func newStandardLogger(componentName string) Logger {
	writer := zerolog.ConsoleWriter{
		Out:        sharedWriter{},
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}
	return standardLogger{
		logger: zerolog.New(writer).With().Timestamp().Str("component", componentName).Logger(),
	}
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	event := l.logger.WithLevel(severity.level())
	if traceLabel != "" {
		event = event.Str("aggregate", traceLabel)
	}
	event.Msgf(format, a...)
}
