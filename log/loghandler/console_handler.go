package loghandler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/qtraffics/qtmon/enhancements/maplib"
	"github.com/qtraffics/qtmon/enhancements/slicelib"
	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/values"
)

var (
	DefaultConsoleHandler log.Handler = NewConsoleHandler(os.Stderr,
		ConsoleHandlerOption{EnableTime: true, SourceLevel: log.LevelError, Level: log.LevelDebug, LevelFormatter: log.ColorLevelFormatter}).
		WithAttrs([]slog.Attr{log.NewFixedMetadata("Default")})
)

const (
	space byte = ' '
	dot   byte = '.'

	defaultBufferSize   = 1024
	maxPooledBufferSize = 64 * 1024
)

var _ log.Handler = (*ConsoleHandler)(nil)

type ConsoleHandler struct {
	level, sourceLevel log.Level
	enableTime         bool
	timeFormat         func(t time.Time) string
	levelFormat        func(l log.Level) string

	writer *safeWriter

	// internal elements
	groupPrefix     string
	preFormatedAttr []byte
	metadata        []slog.Attr
}

type ConsoleHandlerOption struct {
	Level       log.Level
	SourceLevel log.Level
	EnableTime  bool

	TimeFormatter  func(t time.Time) string
	LevelFormatter func(level log.Level) string
}

func NewConsoleHandler(w io.Writer, option ConsoleHandlerOption) log.Handler {
	if w == nil || w == io.Discard {
		return slog.DiscardHandler
	}
	option.TimeFormatter = values.UseDefaultNil(option.TimeFormatter, log.RFC3339TimeFormatter)
	option.LevelFormatter = values.UseDefaultNil(option.LevelFormatter, log.EqualLengthLevelFormatter)

	h := &ConsoleHandler{
		writer:      &safeWriter{w: w},
		level:       option.Level,
		sourceLevel: option.SourceLevel,
		enableTime:  option.EnableTime,
		timeFormat:  option.TimeFormatter,
		levelFormat: option.LevelFormatter,
	}
	return h
}

func (h *ConsoleHandler) newState() *consoleHandlerState {
	return &consoleHandlerState{
		buffer: statePool.Get().(*bytes.Buffer),
		group:  h.groupPrefix,
		level:  h.levelFormat,
		time:   h.timeFormat,
	}
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		level:       h.level,
		sourceLevel: h.sourceLevel,
		enableTime:  h.enableTime,
		timeFormat:  h.timeFormat,
		levelFormat: h.levelFormat,

		writer:          h.writer,
		groupPrefix:     h.groupPrefix,
		preFormatedAttr: slices.Clone(h.preFormatedAttr),
		metadata:        slices.Clone(h.metadata),
	}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level log.Level) bool {
	return h.level <= level
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	state := h.newState()
	defer state.Free()

	if h.enableTime {
		if r.Time.IsZero() {
			r.Time = time.Now()
		}
		state.WriteTime(r.Time)
		state.Space()
	}
	state.WriteLevel(r.Level)

	for _, m := range h.metadata {
		state.WriteMeta(m)
	}

	state.Space()
	state.WriteString(r.Message)

	if len(h.preFormatedAttr) != 0 {
		state.Space()
		state.buffer.Write(h.preFormatedAttr)
	}
	r.Attrs(state.WriteAttr)
	state.NextLine()

	if r.Level >= h.sourceLevel {
		if source := r.Source(); source != nil {
			state.Source(source)
		}
	}

	if err := state.Flush(h.writer); err != nil {
		return ex.Cause(err, "write record")
	}
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	metadata, extraAttr := log.SplitMetadata(attrs)
	h2 := h.clone()
	if len(metadata) != 0 {
		h2.withMetadata(metadata)
	}
	if len(extraAttr) != 0 {
		h2.withAttrs(extraAttr)
	}

	return h2
}

func (h *ConsoleHandler) withMetadata(attrs []slog.Attr) {
	attrs = slicelib.UniqByLast(attrs, func(it slog.Attr) string {
		return it.Key
	})

	if len(h.metadata) == 0 {
		h.metadata = attrs
		return
	}

	indexes := maplib.IndexMap(slicelib.Map(h.metadata, func(it slog.Attr) string {
		return it.Key
	}))

	for _, attr := range attrs {
		if old, ok := indexes[attr.Key]; ok && old < len(h.metadata) {
			h.metadata[old] = attr
		} else {
			h.metadata = append(h.metadata, attr)
		}
	}
}

func (h *ConsoleHandler) withAttrs(attrs []slog.Attr) {
	var attrBytes [][]byte
	if len(h.preFormatedAttr) != 0 {
		attrBytes = append(attrBytes, h.preFormatedAttr)
	}

	for _, attr := range attrs {
		if len(h.groupPrefix) != 0 {
			attr.Key = strings.Join([]string{h.groupPrefix, attr.Key}, string(dot))
		}
		attrBytes = append(attrBytes, []byte(attr.String()))
	}
	if len(attrBytes) != 0 {
		h.preFormatedAttr = bytes.Join(attrBytes, []byte{space})
	}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	if len(h2.groupPrefix) == 0 {
		h2.groupPrefix = name
	} else {
		h2.groupPrefix = h2.groupPrefix + string(dot) + name
	}
	return h2
}

type safeWriter struct {
	access sync.Mutex
	w      io.Writer
}

func (w *safeWriter) Write(p []byte) (int, error) {
	w.access.Lock()
	defer w.access.Unlock()
	return w.w.Write(p)
}
