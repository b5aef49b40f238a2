package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// RuntimeStats snapshots the host and process state for the -stats report.
type RuntimeStats struct {
	LogicalCPUs  int
	ProcessRSSMB float64
	HostUsedPct  float64
}

// CaptureStats gathers runtime stats on a best-effort basis; fields that
// cannot be read stay zero.
func CaptureStats() RuntimeStats {
	var st RuntimeStats

	if n, err := cpu.Counts(true); err == nil {
		st.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.HostUsedPct = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			st.ProcessRSSMB = float64(mi.RSS) / (1024 * 1024)
		}
	}

	return st
}

func (st RuntimeStats) String() string {
	return fmt.Sprintf("CPUs: %d | RSS: %.1f MB | Host Mem Used: %.1f%%",
		st.LogicalCPUs, st.ProcessRSSMB, st.HostUsedPct)
}
