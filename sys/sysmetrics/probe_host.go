package sysmetrics

import (
	"context"
	"log/slog"
	"math"
	"net"
	"os"
	"slices"
	"time"

	"github.com/qtraffics/qtmon/enhancements/maplib"
	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/values"

	pscpu "github.com/shirou/gopsutil/v4/cpu"
	psdisk "github.com/shirou/gopsutil/v4/disk"
	pshost "github.com/shirou/gopsutil/v4/host"
	psmem "github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	psprocess "github.com/shirou/gopsutil/v4/process"
)

// ticksPerSecond scales gopsutil CPU seconds to integer ticks. Only delta
// ratios are used, so millisecond ticks keep the precision of platforms that
// report finer than the 100 Hz kernel clock.
const ticksPerSecond = 1000

var (
	errNoCPUTimes     = ex.New("no cpu times reported")
	errNoLocalAddress = ex.New("no local ipv4 address")
	errNoFileStores   = ex.New("no readable file store")
)

var _ Probe = (*HostProbe)(nil)

// HostProbe reads the running host through gopsutil.
type HostProbe struct {
	logger log.Logger
	pid    int32
}

func NewProbe(logger log.Logger) *HostProbe {
	return &HostProbe{
		logger: values.UseDefaultNil(logger, log.Default()),
		pid:    int32(os.Getpid()),
	}
}

func (p *HostProbe) HostInfo(ctx context.Context) (HostInfo, error) {
	info, err := pshost.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, err
	}
	return HostInfo{
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
	}, nil
}

func (p *HostProbe) CPUInfo(ctx context.Context) (CPUInfo, error) {
	infos, err := pscpu.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, ex.Cause(err, "cpu info")
	}
	physical, err := pscpu.CountsWithContext(ctx, false)
	if err != nil {
		return CPUInfo{}, ex.Cause(err, "physical cores")
	}
	logical, err := pscpu.CountsWithContext(ctx, true)
	if err != nil {
		return CPUInfo{}, ex.Cause(err, "logical cores")
	}
	return summarizeCPU(infos, physical, logical), nil
}

func summarizeCPU(infos []pscpu.InfoStat, physical, logical int) CPUInfo {
	info := CPUInfo{
		Name:          Unknown,
		PhysicalCores: physical,
		LogicalCores:  logical,
	}
	if len(infos) > 0 && infos[0].ModelName != "" {
		info.Name = infos[0].ModelName
	}
	packages := maplib.NewSet[string]()
	for _, i := range infos {
		if i.PhysicalID != "" {
			packages.Add(i.PhysicalID)
		}
	}
	info.Packages = max(packages.Len(), 1)
	return info
}

func (p *HostProbe) CPUTicks(ctx context.Context) (Ticks, error) {
	times, err := pscpu.TimesWithContext(ctx, false)
	if err != nil {
		return Ticks{}, err
	}
	if len(times) == 0 {
		return Ticks{}, errNoCPUTimes
	}
	return ticksFromTimes(times[0]), nil
}

func ticksFromTimes(t pscpu.TimesStat) Ticks {
	toTicks := func(seconds float64) uint64 {
		if seconds <= 0 {
			return 0
		}
		return uint64(math.Round(seconds * ticksPerSecond))
	}
	var ticks Ticks
	ticks[TickUser] = toTicks(t.User)
	ticks[TickNice] = toTicks(t.Nice)
	ticks[TickSystem] = toTicks(t.System)
	ticks[TickIdle] = toTicks(t.Idle)
	ticks[TickIOWait] = toTicks(t.Iowait)
	ticks[TickIRQ] = toTicks(t.Irq)
	ticks[TickSoftIRQ] = toTicks(t.Softirq)
	ticks[TickSteal] = toTicks(t.Steal)
	return ticks
}

func (p *HostProbe) VirtualMemory(ctx context.Context) (MemoryStat, error) {
	vm, err := psmem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{Total: vm.Total, Available: vm.Available}, nil
}

func (p *HostProbe) SwapMemory(ctx context.Context) (SwapStat, error) {
	sw, err := psmem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapStat{}, err
	}
	return SwapStat{Total: sw.Total, Used: sw.Used}, nil
}

// FileStores lists physical mounts in the order the OS reports them. Mounts
// whose usage cannot be read are skipped.
func (p *HostProbe) FileStores(ctx context.Context) ([]FileStore, error) {
	partitions, err := psdisk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, ex.Cause(err, "partitions")
	}
	var (
		stores []FileStore
		errs   ex.JoinError
	)
	for _, partition := range partitions {
		usage, err := psdisk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			p.logger.Debug("skip unreadable mount",
				log.AttrError(err), slog.String("mount", partition.Mountpoint))
			errs.NewError(ex.Zone(partition.Mountpoint, err))
			continue
		}
		stores = append(stores, FileStore{
			Mount:  partition.Mountpoint,
			Total:  usage.Total,
			Usable: usage.Free,
		})
	}
	if len(stores) == 0 {
		return nil, ex.Errors(errNoFileStores, errs.Err())
	}
	return stores, nil
}

func (p *HostProbe) ProcessStart(ctx context.Context) (time.Time, error) {
	proc, err := psprocess.NewProcessWithContext(ctx, p.pid)
	if err != nil {
		return time.Time{}, err
	}
	created, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(created), nil
}

func (p *HostProbe) LocalIP(ctx context.Context) (string, error) {
	interfaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return "", err
	}
	if ip, ok := pickLocalIP(interfaces); ok {
		return ip, nil
	}
	return "", errNoLocalAddress
}

// pickLocalIP returns the first IPv4 address of an interface that is up and
// not a loopback.
func pickLocalIP(interfaces psnet.InterfaceStatList) (string, bool) {
	for _, iface := range interfaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip, _, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				ip = net.ParseIP(addr.Addr)
			}
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				return v4.String(), true
			}
		}
	}
	return "", false
}
