package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/MarcGrol/printshop/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGloudLogger
	}
}

// structuredLogger writes one json record per line in the format Cloud Logging parses.
type structuredLogger struct {
	componentName string
	logger        zerolog.Logger
}

func newGloudLogger(componentName string) Logger {
	return structuredLogger{
		componentName: componentName,
		// A timestamp is added when shipping logs to Cloud Logging.
		logger: zerolog.New(sharedWriter{}).With().Str("component", componentName).Logger(),
	}
}

func (l structuredLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	event := l.logger.Log().Str("severity", string(severity))
	if traceLabel != "" {
		event = event.Dict("logging.googleapis.com/labels", zerolog.Dict().Str("aggregate", traceLabel))
	}
	if trace := mycontext.TraceFromContext(ctx); trace != "" {
		event = event.Str("logging.googleapis.com/trace", trace)
	}
	event.Str(zerolog.MessageFieldName, l.componentName+":"+fmt.Sprintf(format, a...)).Send()
}
