package sysmetrics

import (
	"context"
	"testing"

	"github.com/qtraffics/qtmon/ex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostInfoString(t *testing.T) {
	assert.Equal(t, "ubuntu 24.04 build 6.8.0 x86_64",
		HostInfo{Platform: "ubuntu", PlatformVersion: "24.04", KernelVersion: "6.8.0", KernelArch: "x86_64"}.String())
	assert.Equal(t, "darwin 15.1", HostInfo{Platform: "darwin", PlatformVersion: "15.1"}.String())
	assert.Equal(t, Unknown, HostInfo{}.String())
}

func TestSystemSection(t *testing.T) {
	section, err := systemSection(context.Background(), healthyProbe(), testNow)
	require.NoError(t, err)
	assert.Equal(t, Section{
		FieldOS:  "ubuntu 24.04 build 6.8.0 x86_64",
		FieldDay: "2 days 2 hours",
		FieldIP:  "10.0.0.7",
	}, section)
}

func TestSystemSectionPartial(t *testing.T) {
	probe := healthyProbe()
	probe.ipErr = ex.New("no local ipv4 address")
	probe.startErr = ex.New("permission denied")

	section, err := systemSection(context.Background(), probe, testNow)
	assert.EqualError(t, err, "day : permission denied; ip : no local ipv4 address")
	assert.Equal(t, "ubuntu 24.04 build 6.8.0 x86_64", section[FieldOS])
	assert.Equal(t, Unknown, section[FieldDay])
	assert.Equal(t, Unknown, section[FieldIP])
}
