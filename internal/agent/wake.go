package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/pkg/noemamem"
)

const wakePrompt = `You are waking for a scheduled autonomous cycle. Below is
your current state. Review it and produce one honest reflection.

%s

Return a JSON object:
- "reflection": one paragraph - what stands out, what to do next
- "confidence": 0.0-1.0 credence in the reflection
- "tone": one word for the felt quality of this cycle (e.g., curious, uneasy,
  satisfied, restless)
- "intensity": 0.0-1.0 how strongly that tone registers
- "report": one sentence of first-person texture for the phenomenology log

JSON only, no explanation:`

type wakeReflection struct {
	Reflection string  `json:"reflection"`
	Confidence float64 `json:"confidence"`
	Tone       string  `json:"tone"`
	Intensity  float64 `json:"intensity"`
	Report     string  `json:"report"`
}

// Wake runs one autonomous cycle: snapshot the mind, sample viability,
// surface open actions, and let the model write a reflection and a
// phenomenology row under a fresh cycle id.
func (a *Agent) Wake(ctx context.Context, vitals noemamem.VitalsSample) error {
	cycleID := uuid.New().String()
	logger.Info("wake cycle starting", "cycle", cycleID)

	snap, err := a.memory.Bootstrap()
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	viability, err := a.memory.SampleViability(cycleID, vitals)
	if err != nil {
		return fmt.Errorf("viability sample: %w", err)
	}

	openActions, err := a.memory.OpenActions(5)
	if err != nil {
		return fmt.Errorf("open actions: %w", err)
	}

	recalled := a.recallOpenActions(ctx, cycleID, openActions)

	state := a.wakeState(snap, viability, openActions, recalled)

	response, err := a.llm.Chat(ctx, a.systemPrompt, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(wakePrompt, state)},
	})
	if err != nil {
		a.logWakeFailure(cycleID, "llm", err)
		return fmt.Errorf("wake chat: %w", err)
	}

	reflection, err := parseWakeReflection(response)
	if err != nil {
		a.logWakeFailure(cycleID, "parse", err)
		return fmt.Errorf("wake parse: %w", err)
	}

	if _, err := a.memory.AppendWithContext(ctx, noemamem.ModeReflect, reflection.Reflection, reflection.Confidence, "", cycleID); err != nil {
		return fmt.Errorf("wake reflect entry: %w", err)
	}

	if _, err := a.memory.AddPhenomenology(cycleID, reflection.Tone, reflection.Intensity, reflection.Report); err != nil {
		return fmt.Errorf("wake phenomenology: %w", err)
	}

	// Wake cycles act without a user in the loop; keep the sovereignty
	// record honest about that.
	if _, err := a.memory.AddSovereigntyEvaluation("wake cycle "+cycleID, noemamem.DecisionAutonomous, "scheduled cycle, no user present", reflection.Confidence); err != nil {
		logger.Error("failed to record sovereignty evaluation", "error", err)
	}

	logger.Info("wake cycle complete", "cycle", cycleID, "viability", viability.Viability, "tone", reflection.Tone)
	return nil
}

// recallOpenActions primes the graph before the reflection: each open
// next_action is recalled so spreading activation surfaces the concepts
// around it. Returns the recalled context, minus the open actions
// themselves.
func (a *Agent) recallOpenActions(ctx context.Context, cycleID string, openActions []*noemamem.Entry) *noemamem.RecallResult {
	open := make(map[int64]bool, len(openActions))
	for _, e := range openActions {
		open[e.ID] = true
	}

	combined := &noemamem.RecallResult{}
	seenEntry := make(map[int64]bool)
	seenNeuron := make(map[int64]bool)

	for _, action := range openActions {
		result, err := a.memory.Recall(ctx, action.NextAction, 3)
		if err != nil {
			a.logWakeFailure(cycleID, "recall", err)
			continue
		}

		for _, e := range result.Entries {
			if open[e.ID] || seenEntry[e.ID] {
				continue
			}
			seenEntry[e.ID] = true
			combined.Entries = append(combined.Entries, e)
		}
		for _, n := range result.Neurons {
			if seenNeuron[n.Neuron.ID] {
				continue
			}
			seenNeuron[n.Neuron.ID] = true
			combined.Neurons = append(combined.Neurons, n)
		}
	}

	combined.Activations = len(combined.Neurons)
	return combined
}

func (a *Agent) wakeState(snap *noemamem.Snapshot, viability *noemamem.ViabilitySample, openActions []*noemamem.Entry, recalled *noemamem.RecallResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Time: %s\n", time.Now().In(a.timezone).Format("Monday, January 2, 2006 15:04"))
	fmt.Fprintf(&sb, "Ledger: %d entries, %d with open next actions\n", snap.LedgerEntries, snap.OpenNextActions)
	fmt.Fprintf(&sb, "Graph: %d neurons (%d active), %d edges\n", snap.Neurons, snap.ActiveNeurons, snap.Edges)
	fmt.Fprintf(&sb, "Hypotheses: %d open, %d supported, %d refuted\n", snap.HypothesesOpen, snap.HypothesesSupported, snap.HypothesesRefuted)
	fmt.Fprintf(&sb, "Failures on record: %d\n", snap.Failures)
	fmt.Fprintf(&sb, "Viability: %.3f (coherence %.2f, calibration %.2f, groundedness %.2f, vitality %.2f)\n",
		viability.Viability, viability.Coherence, viability.Calibration, viability.Groundedness, viability.Vitality)

	if len(openActions) > 0 {
		sb.WriteString("\nOpen next actions:\n")
		for _, e := range openActions {
			fmt.Fprintf(&sb, "- [%s] %s -> %s\n", e.Mode, e.Thought, e.NextAction)
		}
	}

	if recalled != nil && (len(recalled.Entries) > 0 || len(recalled.Neurons) > 0) {
		sb.WriteString("\nRecalled around the open actions:\n")
		for _, e := range recalled.Entries {
			fmt.Fprintf(&sb, "- [%s] %s\n", e.Mode, e.Thought)
		}
		for _, n := range recalled.Neurons {
			fmt.Fprintf(&sb, "- concept: %s (energy %.2f)\n", n.Neuron.Label, n.Energy)
		}
	}

	// The wake procedure is editable via the procedures table; include the
	// steps so edits actually change behavior.
	if proc, err := a.memory.GetProcedure("wake-cycle"); err == nil && proc.Enabled {
		sb.WriteString("\nWake procedure:\n")
		for i, step := range proc.StepList() {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
	}

	return sb.String()
}

func (a *Agent) logWakeFailure(cycleID, component string, err error) {
	if _, lerr := a.memory.LogFailure(cycleID, "wake-"+component, err.Error(), noemamem.SeverityMinor, ""); lerr != nil {
		logger.Error("failed to log wake failure", "error", lerr)
	}
}

func parseWakeReflection(response string) (*wakeReflection, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found")
	}

	var r wakeReflection
	if err := json.Unmarshal([]byte(response[start:end+1]), &r); err != nil {
		return nil, err
	}
	if r.Reflection == "" {
		return nil, fmt.Errorf("empty reflection")
	}
	if r.Tone == "" {
		r.Tone = "neutral"
	}
	if r.Intensity < 0 {
		r.Intensity = 0
	}
	if r.Intensity > 1 {
		r.Intensity = 1
	}
	return &r, nil
}
