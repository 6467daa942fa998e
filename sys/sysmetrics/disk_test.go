package sysmetrics

import (
	"testing"

	"github.com/qtraffics/qtmon/sys/sysvars"

	"github.com/stretchr/testify/assert"
)

var testStores = []FileStore{
	{Mount: `C:\`, Total: 100, Usable: 40},
	{Mount: `D:\`, Total: 200, Usable: 60},
	{Mount: `E:\`, Total: 300, Usable: 100},
}

func TestAggregateDiskSumAll(t *testing.T) {
	u := AggregateDisk(testStores, DiskSumAll)
	assert.Equal(t, Usage{Total: 600, Available: 200, Used: 400}, u)
	assert.Equal(t, "66.67", u.Rate())
}

func TestAggregateDiskFirstOnly(t *testing.T) {
	for n := 1; n <= len(testStores); n++ {
		u := AggregateDisk(testStores[:n], DiskFirstOnly)
		assert.Equal(t, Usage{Total: 100, Available: 40, Used: 60}, u)
	}
}

func TestDiskSectionEmpty(t *testing.T) {
	section := diskSection(AggregateDisk(nil, DiskSumAll))
	assert.Equal(t, Unknown, section[FieldTotal])
	assert.Equal(t, 0, section[FieldUsageRate])
	assert.Equal(t, FormatBytes(0), section[FieldUsed])
}

func TestDiskPolicyFor(t *testing.T) {
	assert.Equal(t, DiskSumAll, DiskPolicyFor(sysvars.PlatformWindows))
	assert.Equal(t, DiskFirstOnly, DiskPolicyFor(sysvars.PlatformLinux))
	assert.Equal(t, DiskFirstOnly, DiskPolicyFor(sysvars.PlatformDarwin))
	assert.Equal(t, "sum-all", DiskSumAll.String())
}
