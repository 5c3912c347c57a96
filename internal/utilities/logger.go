package utilities

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/antonio-alexander/go-employees/internal"

	"github.com/rs/zerolog"
)

const fieldCorrelationId string = "correlation_id"

type logger struct {
	writer io.Writer
	zerolog.Logger
	config struct {
		Level Level
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	default:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	case Trace:
		return zerolog.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a json logger that writes to stdout unless an
// io.Writer is provided as a parameter
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	l := &logger{writer: os.Stdout}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			l.writer = p
		}
	}
	l.config.Level = Error
	l.Logger = zerolog.New(l.writer).With().Timestamp().Logger().
		Level(l.config.Level.zerologLevel())
	return l
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	l.Logger = l.Logger.Level(l.config.Level.zerologLevel())
	return nil
}

func (l *logger) event(ctx context.Context, e *zerolog.Event, format string, v ...any) {
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		e = e.Str(fieldCorrelationId, correlationId)
	}
	e.Msgf(format, v...)
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.Logger.Error(), format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.Logger.Info(), format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.Logger.Debug(), format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.Logger.Trace(), format, v...)
}

type nopLogger struct{}

// NewNopLogger returns a logger that discards everything, components
// fall back to it when they aren't given a logger
func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any) {}
func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Trace(context.Context, string, ...any) {}
