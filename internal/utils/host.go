package utils

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a run executed on
type HostInfo struct {
	OS            string  `json:"os" msgpack:"os"`
	Arch          string  `json:"arch" msgpack:"arch"`
	GoVersion     string  `json:"go_version" msgpack:"go_version"`
	CPUModel      string  `json:"cpu_model,omitempty" msgpack:"cpu_model,omitempty"`
	LogicalCPUs   int     `json:"logical_cpus" msgpack:"logical_cpus"`
	MemoryTotalMB uint64  `json:"memory_total_mb" msgpack:"memory_total_mb"`
	MemoryUsedPct float64 `json:"memory_used_pct" msgpack:"memory_used_pct"`
}

// CollectHostInfo gathers host details. Probe failures are logged and leave
// the corresponding fields zero.
func CollectHostInfo(log zerolog.Logger) HostInfo {
	info := HostInfo{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		GoVersion:   runtime.Version(),
		LogicalCPUs: runtime.NumCPU(),
	}

	if cpus, err := cpu.Info(); err != nil {
		log.Warn().Err(err).Msg("Failed to get CPU info")
	} else if len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}

	if count, err := cpu.Counts(true); err != nil {
		log.Warn().Err(err).Msg("Failed to get CPU count")
	} else if count > 0 {
		info.LogicalCPUs = count
	}

	if memStat, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		info.MemoryTotalMB = memStat.Total / 1024 / 1024
		info.MemoryUsedPct = memStat.UsedPercent
	}

	return info
}
