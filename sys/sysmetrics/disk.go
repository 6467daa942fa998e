package sysmetrics

import (
	"github.com/qtraffics/qtmon/sys/sysvars"
)

// DiskPolicy decides how file stores are combined into one disk figure.
type DiskPolicy uint8

const (
	// DiskFirstOnly reports the first store. Mount trees overlap, so summing
	// them would count the same device more than once.
	DiskFirstOnly DiskPolicy = iota
	// DiskSumAll adds up every store, for drive-letter systems.
	DiskSumAll
)

func DiskPolicyFor(p sysvars.Platform) DiskPolicy {
	if p.MultiVolume() {
		return DiskSumAll
	}
	return DiskFirstOnly
}

func (p DiskPolicy) String() string {
	if p == DiskSumAll {
		return "sum-all"
	}
	return "first-only"
}

func AggregateDisk(stores []FileStore, policy DiskPolicy) Usage {
	var total, available uint64
	for _, store := range stores {
		total += store.Total
		available += store.Usable
		if policy != DiskSumAll {
			break
		}
	}
	return MemoryUsage(total, available)
}

func diskSection(u Usage) Section {
	section := u.section()
	if u.Total == 0 {
		section[FieldTotal] = Unknown
	}
	return section
}
