package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/pkg/noemamem"
)

type RecallArgs struct {
	Query string   `json:"query"`
	Modes []string `json:"modes,omitempty"`
	Limit int      `json:"limit,omitempty"`
}

type AppendArgs struct {
	Mode       string  `json:"mode"`
	Thought    string  `json:"thought"`
	Confidence float64 `json:"confidence"`
	NextAction string  `json:"next_action,omitempty"`
}

func RegisterMemoryTools(registry *Registry, memory *noemamem.Store) {
	recallTool := llm.Tool{
		Name:        "recall_memory",
		Description: "Search the ledger and concept graph for relevant past thoughts. Returns matching entries plus concepts lit up by spreading activation. Use this before forming opinions about anything you may have encountered before.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for (e.g., 'database migration decision', 'morning routine observations')",
				},
				"modes": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Optional ledger modes to restrict to: observe, reflect, hypothesize, decide, act, dream. Omit to search all.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Max entries to return. Default 10.",
				},
			},
			"required": []string{"query"},
		},
	}

	registry.Register(recallTool, func(ctx context.Context, args string) (string, error) {
		var params RecallArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		result, err := memory.Recall(ctx, params.Query, params.Limit)
		if err != nil {
			return "", err
		}

		if len(result.Entries) == 0 && len(result.Neurons) == 0 {
			return "No relevant memories found.", nil
		}

		var sb strings.Builder

		if len(result.Entries) > 0 {
			sb.WriteString("Ledger entries:\n")
			for _, e := range result.Entries {
				if len(params.Modes) > 0 && !containsMode(params.Modes, e.Mode) {
					continue
				}
				fmt.Fprintf(&sb, "- [%s, conf %.2f] %s\n", e.Mode, e.Confidence, e.Thought)
				if e.NextAction != "" {
					fmt.Fprintf(&sb, "    next: %s\n", e.NextAction)
				}
			}
		}

		if len(result.Neurons) > 0 {
			sb.WriteString("\nActivated concepts:\n")
			for _, a := range result.Neurons {
				fmt.Fprintf(&sb, "- %s (%s, energy %.2f, depth %d)\n", a.Neuron.Label, a.Neuron.Kind, a.Energy, a.Depth)
			}
		}

		return sb.String(), nil
	})

	appendTool := llm.Tool{
		Name:        "append_ledger",
		Description: "Append a thought to the ledger. The ledger is append-only and is your persistent identity - record observations, reflections, decisions and actions as they happen. Confidence is your honest credence in the thought, 0 to 1.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mode": map[string]any{
					"type":        "string",
					"description": "One of: observe, reflect, hypothesize, decide, act, dream",
				},
				"thought": map[string]any{
					"type":        "string",
					"description": "The thought to record",
				},
				"confidence": map[string]any{
					"type":        "number",
					"description": "Credence in this thought, 0 to 1",
				},
				"next_action": map[string]any{
					"type":        "string",
					"description": "Optional concrete follow-up this thought commits to",
				},
			},
			"required": []string{"mode", "thought", "confidence"},
		},
	}

	registry.Register(appendTool, func(ctx context.Context, args string) (string, error) {
		var params AppendArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		entry, err := memory.AppendWithContext(ctx, params.Mode, params.Thought, params.Confidence, params.NextAction, "")
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Recorded entry %s (%s).", entry.UID, entry.Mode), nil
	})
}

func containsMode(modes []string, mode string) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
