package sysmetrics

import (
	"context"
	"time"

	"github.com/qtraffics/qtmon/ex"
)

// systemSection reports what it can; fields the host would not provide are
// Unknown and their errors are joined.
func systemSection(ctx context.Context, probe Probe, now time.Time) (Section, error) {
	var errs ex.JoinError
	section := Section{
		FieldOS:  Unknown,
		FieldDay: Unknown,
		FieldIP:  Unknown,
	}

	if host, err := probe.HostInfo(ctx); err != nil {
		errs.NewError(ex.Zone(FieldOS, err))
	} else {
		section[FieldOS] = host.String()
	}

	if started, err := probe.ProcessStart(ctx); err != nil {
		errs.NewError(ex.Zone(FieldDay, err))
	} else {
		section[FieldDay] = FormatUptime(now.Sub(started))
	}

	if ip, err := probe.LocalIP(ctx); err != nil {
		errs.NewError(ex.Zone(FieldIP, err))
	} else {
		section[FieldIP] = ip
	}

	return section, errs.Err()
}
