package sysmetrics

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Unknown is shown for a value the host would not report.
const Unknown = "?"

func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func FormatBytes(b uint64) string {
	return humanize.IBytes(b)
}

func FormatClock(t time.Time) string {
	return t.Format(time.TimeOnly)
}

// FormatUptime renders d at hour granularity, e.g. "3 days 4 hours".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	days, hours := hours/24, hours%24
	if days == 0 {
		return plural(hours, "hour")
	}
	return plural(days, "day") + " " + plural(hours, "hour")
}

func plural(n int64, unit string) string {
	s := strconv.FormatInt(n, 10) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s
}

// rate returns used/total as a percentage string, or the integer 0 when
// total is 0.
func rate(used, total uint64) any {
	if total == 0 {
		return 0
	}
	return FormatPercent(float64(used) / float64(total) * 100)
}

func sub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
