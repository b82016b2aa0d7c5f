package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// InitLogger installs a console logger on w (stderr when nil) as the default
// context logger. Unknown levels fall back to info.
func InitLogger(w io.Writer, level string) *zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	consoleWriter := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}

	logger := zerolog.New(consoleWriter).
		With().
		Timestamp().
		Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.DefaultContextLogger = &logger
	return &logger
}

func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithRunID returns a context whose logger tags every event with a fresh run id.
func WithRunID(ctx context.Context) (context.Context, string) {
	runID := xid.New().String()
	l := Logger(ctx).With().Str("run", runID).Logger()
	return l.WithContext(ctx), runID
}
