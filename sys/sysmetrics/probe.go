package sysmetrics

import (
	"context"
	"strings"
	"time"
)

// Probe is the view of the host the collector reads from.
type Probe interface {
	HostInfo(ctx context.Context) (HostInfo, error)
	CPUInfo(ctx context.Context) (CPUInfo, error)
	TickSource
	VirtualMemory(ctx context.Context) (MemoryStat, error)
	SwapMemory(ctx context.Context) (SwapStat, error)
	FileStores(ctx context.Context) ([]FileStore, error)
	ProcessStart(ctx context.Context) (time.Time, error)
	LocalIP(ctx context.Context) (string, error)
}

type TickSource interface {
	CPUTicks(ctx context.Context) (Ticks, error)
}

type HostInfo struct {
	Platform        string
	PlatformVersion string
	KernelVersion   string
	KernelArch      string
}

// String describes the operating system, e.g. "ubuntu 22.04 build 6.2.0 x86_64".
func (h HostInfo) String() string {
	var parts []string
	for _, p := range []string{h.Platform, h.PlatformVersion} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if h.KernelVersion != "" {
		parts = append(parts, "build", h.KernelVersion)
	}
	if h.KernelArch != "" {
		parts = append(parts, h.KernelArch)
	}
	if len(parts) == 0 {
		return Unknown
	}
	return strings.Join(parts, " ")
}

type CPUInfo struct {
	Name          string
	Packages      int
	PhysicalCores int
	LogicalCores  int
}

type MemoryStat struct {
	Total     uint64
	Available uint64
}

type SwapStat struct {
	Total uint64
	Used  uint64
}

// FileStore is one mounted filesystem.
type FileStore struct {
	Mount  string
	Total  uint64
	Usable uint64
}
