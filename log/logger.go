package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/qtraffics/qtmon/enhancements/slicelib"
)

type Logger interface {
	Enabled(ctx context.Context, level Level) bool
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type ContextLogger interface {
	Logger
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

var _ ContextLogger = (*slog.Logger)(nil)

type Handler = slog.Handler

func New(handler Handler) ContextLogger {
	return slog.New(handler)
}

func NewSlog(handler Handler) *slog.Logger {
	return slog.New(handler)
}

// With returns raw with attrs attached. Loggers that are not backed by slog
// are returned unchanged.
func With(raw Logger, attr ...slog.Attr) Logger {
	logger := SlogLogger(raw)
	if logger == nil {
		return raw
	}
	return logger.With(slicelib.MapToAny(attr)...)
}

func WithGroup(raw Logger, name string) Logger {
	logger := SlogLogger(raw)
	if logger == nil {
		return raw
	}
	return logger.WithGroup(name)
}

type Level = slog.Level

const (
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarn    = slog.LevelWarn
	LevelError   = slog.LevelError
	LevelDisable = slog.LevelError + 1
)

func SlogLogger(l Logger) *slog.Logger {
	if l == nil {
		return nil
	}
	if sl, ok := l.(*slog.Logger); ok {
		return sl
	}
	return nil
}

var (
	defaultLogger atomic.Pointer[Logger]
	NOP           Logger = slog.New(slog.DiscardHandler)
)

func init() {
	var l Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	defaultLogger.Store(&l)
}

func SetDefault(l Logger) Logger {
	if l == nil {
		l = NOP
	}
	return *defaultLogger.Swap(&l)
}

func Default() Logger {
	return *defaultLogger.Load()
}

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
