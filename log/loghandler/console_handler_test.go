package loghandler

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qtraffics/qtmon/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewConsoleHandler(&out, ConsoleHandlerOption{
		Level:       log.LevelInfo,
		SourceLevel: log.LevelDisable,
		EnableTime:  true,
		TimeFormatter: func(time.Time) string {
			return "T"
		},
	})
	logger := log.NewSlog(h).With(log.NewMetadata("component", "sysmetrics"), log.AttrSection("disk"))

	logger.Debug("hidden")
	logger.Info("collect section failed", slog.String("mount", "/data"), slog.String("reason", "permission denied"))

	assert.Equal(t, "T INFO  [sysmetrics] collect section failed section=disk mount=/data reason=`permission denied`\n", out.String())
}

func TestConsoleHandlerGroup(t *testing.T) {
	var out bytes.Buffer
	h := NewConsoleHandler(&out, ConsoleHandlerOption{Level: log.LevelDebug, SourceLevel: log.LevelDisable})
	logger := log.NewSlog(h).WithGroup("cpu")

	logger.Warn("degraded sample", slog.Int("retries", 28))

	assert.Equal(t, "WARN  degraded sample cpu.retries=28\n", out.String())
}

func TestConsoleHandlerMetadataOverride(t *testing.T) {
	var out bytes.Buffer
	h := NewConsoleHandler(&out, ConsoleHandlerOption{Level: log.LevelDebug, SourceLevel: log.LevelDisable})
	logger := log.NewSlog(h).
		With(log.NewMetadata("tag", "a")).
		With(log.NewMetadata("tag", "b"))

	logger.Info("x")

	assert.Equal(t, "INFO  [b] x\n", out.String())
}

func TestBuild(t *testing.T) {
	h, err := New(BuildOption{Disabled: true})
	require.NoError(t, err)
	assert.Equal(t, slog.DiscardHandler, h)

	path := filepath.Join(t.TempDir(), "qtmon.log")
	h, err = New(BuildOption{Output: path, Level: log.LevelInfo, Tag: "qtmon"})
	require.NoError(t, err)

	log.NewSlog(h).Info("started")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "INFO  [qtmon] started"))
}
