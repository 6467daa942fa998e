package log

import (
	"log/slog"
	"time"
)

const (
	KeyError    = "error"
	KeySection  = "section"
	KeyDuration = "took"
)

func AttrError(err error) slog.Attr {
	if err == nil {
		panic("log error on a nil error")
	}

	return slog.Any(KeyError, ValueFunc(func() slog.Value {
		return slog.StringValue(err.Error())
	}))
}

func AttrSection(name string) slog.Attr {
	return slog.String(KeySection, name)
}

func AttrDuration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.Round(time.Millisecond).String())
}

func AttrSubscribers(n int) slog.Attr {
	return slog.Int("subscribers", n)
}
