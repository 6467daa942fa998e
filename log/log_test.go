package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "INFO ", EqualLengthLevelFormatter(LevelInfo))
	assert.Equal(t, "WARN ", EqualLengthLevelFormatter(LevelWarn))
	assert.Equal(t, "DEBUG+1", EqualLengthLevelFormatter(LevelDebug+1))
	assert.Equal(t, "2026-10-17T08:30:00Z",
		RFC3339TimeFormatter(time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)))
}

func TestSplitMetadata(t *testing.T) {
	meta, extra := SplitMetadata([]slog.Attr{
		NewMetadata("component", "sysmetrics"),
		AttrSection("disk"),
	})
	assert.Len(t, meta, 1)
	assert.Equal(t, "component", meta[0].Key)
	assert.Equal(t, "sysmetrics", meta[0].Value.String())
	assert.Len(t, extra, 1)
	assert.Equal(t, KeySection, extra[0].Key)
}

func TestWithAndDefault(t *testing.T) {
	var out bytes.Buffer
	logger := NewSlog(slog.NewTextHandler(&out, nil))

	old := SetDefault(With(logger, AttrSection("cpu")))
	defer SetDefault(old)

	Info("sampled", AttrDuration(312*time.Millisecond))
	assert.Contains(t, out.String(), "section=cpu")
	assert.Contains(t, out.String(), "took=312ms")

	custom := plainLogger{}
	assert.Equal(t, Logger(custom), With(custom, AttrSection("x")))
}

type plainLogger struct{}

func (plainLogger) Enabled(context.Context, Level) bool { return true }
func (plainLogger) Debug(string, ...any)                {}
func (plainLogger) Info(string, ...any)                 {}
func (plainLogger) Warn(string, ...any)                 {}
func (plainLogger) Error(string, ...any)                {}
