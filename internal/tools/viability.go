package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/vitals"
	"github.com/noemalabs/noema/pkg/noemamem"
)

func RegisterViabilityTools(registry *Registry, memory *noemamem.Store, mindPath string) {
	viabilityTool := llm.Tool{
		Name:        "viability_report",
		Description: "Compute and record a fresh viability snapshot: coherence, calibration, groundedness and vitality combined into one score. Use during wake cycles or when asked how you're doing.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	registry.Register(viabilityTool, func(ctx context.Context, args string) (string, error) {
		sample, err := memory.SampleViability("", vitals.Sample(ctx, mindPath))
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Viability: %.3f\n", sample.Viability)
		fmt.Fprintf(&sb, "- coherence:    %.3f\n", sample.Coherence)
		fmt.Fprintf(&sb, "- calibration:  %.3f\n", sample.Calibration)
		fmt.Fprintf(&sb, "- groundedness: %.3f\n", sample.Groundedness)
		fmt.Fprintf(&sb, "- vitality:     %.3f\n", sample.Vitality)
		return sb.String(), nil
	})

	failureTool := llm.Tool{
		Name:        "log_failure",
		Description: "Record a failure in the post-mortem journal with severity and the lesson learned. Failures are raw material for better hypotheses, not something to hide.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"component": map[string]any{
					"type":        "string",
					"description": "What failed (e.g., 'recall', 'wake-cycle', 'reasoning')",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "What happened",
				},
				"severity": map[string]any{
					"type":        "string",
					"description": "minor, major, or critical",
				},
				"lesson": map[string]any{
					"type":        "string",
					"description": "What to do differently next time",
				},
			},
			"required": []string{"component", "description", "severity"},
		},
	}

	registry.Register(failureTool, func(ctx context.Context, args string) (string, error) {
		var params FailureArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		f, err := memory.LogFailure("", params.Component, params.Description, params.Severity, params.Lesson)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Failure %d logged (%s, %s).", f.ID, f.Component, f.Severity), nil
	})
}

type FailureArgs struct {
	Component   string `json:"component"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Lesson      string `json:"lesson,omitempty"`
}
