package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/vitals"
)

var startedAt = time.Now()

func RegisterSystemTools(registry *Registry, mindPath string) {
	statusTool := llm.Tool{
		Name:        "system_status",
		Description: "Report host resource usage, mind file size and process uptime.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	registry.Register(statusTool, func(ctx context.Context, args string) (string, error) {
		sample := vitals.Sample(ctx, mindPath)

		var sb strings.Builder
		fmt.Fprintf(&sb, "Memory: %.1f%%\n", sample.MemPercent)
		fmt.Fprintf(&sb, "CPU:    %.1f%%\n", sample.CPUPercent)
		fmt.Fprintf(&sb, "Disk:   %.1f%%\n", sample.DiskPercent)

		if info, err := os.Stat(mindPath); err == nil {
			fmt.Fprintf(&sb, "Mind file: %s (%.1f MB)\n", mindPath, float64(info.Size())/1024/1024)
		}

		fmt.Fprintf(&sb, "Uptime: %s\n", time.Since(startedAt).Round(time.Second))
		return sb.String(), nil
	})

	timeTool := llm.Tool{
		Name:        "current_time",
		Description: "Get the current date and time.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	registry.Register(timeTool, func(ctx context.Context, args string) (string, error) {
		now := time.Now()
		return fmt.Sprintf("%s (%s)", now.Format("Monday, January 2, 2006 15:04:05 MST"), now.Format(time.RFC3339)), nil
	})
}
