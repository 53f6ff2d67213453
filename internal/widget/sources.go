package widget

import (
	"errors"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// CPUSource reports per-core utilisation in percent.
type CPUSource interface {
	Count() (int, error)
	Usage() ([]float64, error)
}

// MemoryStat is a snapshot of RAM and swap usage in bytes.
type MemoryStat struct {
	Used, Total         uint64
	SwapUsed, SwapTotal uint64
}

type MemorySource interface {
	Memory() (MemoryStat, error)
}

// NetCounter holds the cumulative byte counters of one interface.
type NetCounter struct {
	Name      string
	BytesRecv uint64
	BytesSent uint64
}

type NetworkSource interface {
	Counters() ([]NetCounter, error)
}

// BatteryStat is the charge of the first battery.
type BatteryStat struct {
	Percent  float64
	Charging bool
}

type BatterySource interface {
	Battery() (BatteryStat, error)
}

// Sources bundles the data sources the built-in widgets read.
type Sources struct {
	CPU     CPUSource
	Memory  MemorySource
	Network NetworkSource
	Battery BatterySource
	Now     func() time.Time
}

// HostSources reads the local machine.
func HostSources() Sources {
	return Sources{
		CPU:     hostCPU{},
		Memory:  hostMemory{},
		Network: hostNetwork{},
		Battery: hostBattery{get: battery.Get},
		Now:     time.Now,
	}
}

type hostCPU struct{}

func (hostCPU) Count() (int, error) { return cpu.Counts(true) }

// Usage compares against the previous call, so the first result covers the
// time since boot.
func (hostCPU) Usage() ([]float64, error) { return cpu.Percent(0, true) }

type hostMemory struct{}

func (hostMemory) Memory() (MemoryStat, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStat{}, err
	}
	sw, err := mem.SwapMemory()
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{Used: vm.Used, Total: vm.Total, SwapUsed: sw.Used, SwapTotal: sw.Total}, nil
}

type hostNetwork struct{}

func (hostNetwork) Counters() ([]NetCounter, error) {
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return nil, err
	}
	out := make([]NetCounter, 0, len(stats))
	for _, s := range stats {
		out = append(out, NetCounter{Name: s.Name, BytesRecv: s.BytesRecv, BytesSent: s.BytesSent})
	}
	return out, nil
}

type hostBattery struct {
	get func(idx int) (*battery.Battery, error)
}

var errNoBattery = errors.New("no battery found")

// Battery reads the first battery. A partial error from the library still
// carries usable data as long as the charge levels were read.
func (h hostBattery) Battery() (BatteryStat, error) {
	bat, err := h.get(0)
	stateKnown := true
	if err != nil {
		var perr battery.ErrPartial
		if !errors.As(err, &perr) || perr.Current != nil || perr.Full != nil {
			return BatteryStat{}, err
		}
		stateKnown = perr.State == nil
	}
	if bat == nil || bat.Full <= 0 {
		return BatteryStat{}, errNoBattery
	}
	return BatteryStat{
		Percent:  bat.Current / bat.Full * 100,
		Charging: stateKnown && bat.State.Raw == battery.Charging,
	}, nil
}
