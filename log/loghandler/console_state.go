package loghandler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysvars"
)

var statePool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
	},
}

type consoleHandlerState struct {
	buffer *bytes.Buffer
	group  string

	level func(l log.Level) string
	time  func(t time.Time) string
}

func (s *consoleHandlerState) Free() {
	if s.buffer == nil {
		return
	}
	if s.buffer.Cap() <= maxPooledBufferSize {
		s.buffer.Reset()
		statePool.Put(s.buffer)
	}
	s.buffer = nil
}

// Flush writes the formatted record in one call so concurrent records never
// interleave on the underlying writer.
func (s *consoleHandlerState) Flush(w io.Writer) error {
	_, err := w.Write(s.buffer.Bytes())
	return err
}

func (s *consoleHandlerState) WriteString(ss string) {
	s.buffer.WriteString(ss)
}

func (s *consoleHandlerState) WriteTime(t time.Time) {
	s.buffer.WriteString(s.time(t))
}

func (s *consoleHandlerState) WriteLevel(l log.Level) {
	s.buffer.WriteString(s.level(l))
}

func (s *consoleHandlerState) WriteAttr(attr slog.Attr) bool {
	if attr.Equal(slog.Attr{}) {
		return true
	}
	if attr.Key == "" {
		attr.Key = "!BADKEY"
	}

	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		for _, v := range value.Group() {
			v.Key = attr.Key + "." + v.Key // apply the old key
			s.WriteAttr(v)
		}
		return true
	}

	s.Space()
	if len(s.group) != 0 {
		s.buffer.WriteString(s.group)
		s.buffer.WriteByte(dot)
	}
	var valueStr string
	if value.Kind() == slog.KindTime && s.time != nil {
		valueStr = s.time(value.Time())
	} else {
		valueStr = value.String()
	}

	if strings.ContainsAny(valueStr, " \t") {
		valueStr = "`" + valueStr + "`"
	}
	s.buffer.WriteString(attr.Key)
	s.buffer.WriteByte('=')
	s.buffer.WriteString(valueStr)
	return true
}

func (s *consoleHandlerState) Source(source *slog.Source) {
	if sysvars.DebugEnabled {
		fmt.Fprintf(s.buffer, "Caller: %s:%d %s \n", source.File, source.Line, source.Function)
	} else {
		fmt.Fprintf(s.buffer, "Caller: %s \n", source.Function)
	}
}

func (s *consoleHandlerState) NextLine() {
	s.buffer.WriteByte('\n')
}

func (s *consoleHandlerState) Space() {
	s.buffer.WriteByte(space)
}

func (s *consoleHandlerState) WriteMeta(meta slog.Attr) {
	s.Space()

	value := meta.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		s.buffer.WriteString("[" + strings.Join(groupValues(value), " ") + "]")
		return
	}

	str := value.String()
	if len(str) == 0 {
		str = "!EMPTY"
	}
	s.buffer.WriteString("[" + str + "]")
}

func groupValues(value slog.Value) []string {
	value = value.Resolve()
	if value.Kind() != slog.KindGroup {
		return []string{value.String()}
	}

	var groupValue []string
	for _, v := range value.Group() {
		groupValue = append(groupValue, groupValues(v.Value)...)
	}
	return groupValue
}
