package loghandler

import (
	"io"
	"log/slog"
	"os"

	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
)

type BuildOption struct {
	Disabled bool      `yaml:"disabled"`
	Output   string    `yaml:"output"`
	Level    log.Level `yaml:"level"`
	Time     bool      `yaml:"time"`
	Debug    bool      `yaml:"debug"`
	Tag      string    `yaml:"tag"`

	OutputWriter io.Writer `yaml:"-"`
}

// New builds a console handler from opt. Output is "stdout", "stderr" (the
// default) or a file path opened for appending; terminals get coloured levels.
func New(opt BuildOption) (log.Handler, error) {
	if opt.Disabled {
		return slog.DiscardHandler, nil
	}
	var (
		file           = opt.OutputWriter
		sourceLevel    = log.LevelDisable
		levelFormatter = log.EqualLengthLevelFormatter
		err            error
	)
	if opt.Debug {
		sourceLevel = log.LevelError
	}

	if file == nil {
		switch opt.Output {
		case "stdout":
			file = os.Stdout
			levelFormatter = log.ColorLevelFormatter
		case "", "stderr":
			file = os.Stderr
			levelFormatter = log.ColorLevelFormatter
		default:
			file, err = os.OpenFile(opt.Output, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
			if err != nil {
				return nil, ex.Cause(err, "openfile")
			}
		}
	}

	h := NewConsoleHandler(file, ConsoleHandlerOption{
		Level:      opt.Level,
		EnableTime: opt.Time,

		SourceLevel:    sourceLevel,
		TimeFormatter:  log.RFC3339TimeFormatter,
		LevelFormatter: levelFormatter,
	})
	if opt.Tag != "" {
		h = h.WithAttrs([]slog.Attr{log.NewMetadata("tag", opt.Tag)})
	}
	return h, nil
}
