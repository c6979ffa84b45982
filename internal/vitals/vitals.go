package vitals

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/noemalabs/noema/pkg/noemamem"
)

// Sample reads host resource pressure for the vitality component. Any
// probe that fails reports zero pressure rather than blocking the
// viability pass.
func Sample(ctx context.Context, diskPath string) noemamem.VitalsSample {
	if diskPath == "" {
		diskPath = "/"
	}

	var sample noemamem.VitalsSample

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sample.MemPercent = vm.UsedPercent
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		sample.CPUPercent = percents[0]
	}

	if usage, err := disk.UsageWithContext(ctx, diskPath); err == nil {
		sample.DiskPercent = usage.UsedPercent
	}

	return sample
}
