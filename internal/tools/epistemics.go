package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/pkg/noemamem"
)

type ProposeArgs struct {
	Statement     string  `json:"statement"`
	Confidence    float64 `json:"confidence"`
	Falsification string  `json:"falsification"`
}

type ValidateArgs struct {
	HypothesisID int64  `json:"hypothesis_id"`
	Outcome      string `json:"outcome"`
	Note         string `json:"note,omitempty"`
}

type ListHypothesesArgs struct {
	Statuses []string `json:"statuses,omitempty"`
}

func RegisterEpistemicsTools(registry *Registry, memory *noemamem.Store) {
	proposeTool := llm.Tool{
		Name:        "propose_hypothesis",
		Description: "Propose a falsifiable hypothesis for testing. State what observation would refute it - a hypothesis without a falsification condition is just a vibe.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"statement": map[string]any{
					"type":        "string",
					"description": "The hypothesis, as a testable claim",
				},
				"confidence": map[string]any{
					"type":        "number",
					"description": "Prior credence, 0 to 1",
				},
				"falsification": map[string]any{
					"type":        "string",
					"description": "What observation would refute this",
				},
			},
			"required": []string{"statement", "confidence", "falsification"},
		},
	}

	registry.Register(proposeTool, func(ctx context.Context, args string) (string, error) {
		var params ProposeArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		h, err := memory.ProposeHypothesis(params.Statement, params.Confidence, params.Falsification)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Hypothesis %d proposed at confidence %.2f.", h.ID, h.Confidence), nil
	})

	validateTool := llm.Tool{
		Name:        "record_validation",
		Description: "Record the outcome of testing a hypothesis: confirming, disconfirming, or inconclusive. Confidence adjusts automatically and enough evidence resolves the hypothesis.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hypothesis_id": map[string]any{
					"type":        "integer",
					"description": "ID of the hypothesis tested",
				},
				"outcome": map[string]any{
					"type":        "string",
					"description": "confirming, disconfirming, or inconclusive",
				},
				"note": map[string]any{
					"type":        "string",
					"description": "One-line summary of the evidence",
				},
			},
			"required": []string{"hypothesis_id", "outcome"},
		},
	}

	registry.Register(validateTool, func(ctx context.Context, args string) (string, error) {
		var params ValidateArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		v, err := memory.RecordValidation(params.HypothesisID, params.Outcome, params.Note)
		if err != nil {
			return "", err
		}

		h, err := memory.GetHypothesis(params.HypothesisID)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Validation %s recorded. Hypothesis %d is now %s at confidence %.2f.", v.RunUID, h.ID, h.Status, h.Confidence), nil
	})

	listTool := llm.Tool{
		Name:        "list_hypotheses",
		Description: "List hypotheses by status. Use to find what needs testing or review what's been settled.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"statuses": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Statuses to include: proposed, testing, supported, refuted, retired. Omit for all.",
				},
			},
		},
	}

	registry.Register(listTool, func(ctx context.Context, args string) (string, error) {
		var params ListHypothesesArgs
		if args != "" {
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}
		}

		hypotheses, err := memory.ListHypotheses(params.Statuses...)
		if err != nil {
			return "", err
		}

		if len(hypotheses) == 0 {
			return "No hypotheses on record.", nil
		}

		var sb strings.Builder
		for _, h := range hypotheses {
			fmt.Fprintf(&sb, "- #%d [%s, conf %.2f, evidence %d] %s\n", h.ID, h.Status, h.Confidence, h.EvidenceCount, h.Statement)
			if h.Falsification != "" {
				fmt.Fprintf(&sb, "    falsified by: %s\n", h.Falsification)
			}
		}

		return sb.String(), nil
	})
}
