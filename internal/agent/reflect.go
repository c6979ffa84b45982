package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noemalabs/noema/internal/conversation"
	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/pkg/noemamem"
)

const reflectPrompt = `You are the reflection pass of a persistent mind. Read
the exchange below and distill what is worth keeping.

Return a JSON array of thoughts. Each thought has:
- "mode": one of observe, reflect, hypothesize, decide, act
- "thought": the content, one or two sentences, self-contained
- "confidence": 0.0-1.0 honest credence
- "next_action": optional concrete follow-up, omit if none
- "concepts": optional array of 1-3 short lowercase concept labels this
  thought connects (e.g., ["garden", "irrigation"])
- "hypothesis": only when mode is hypothesize - an object with "statement"
  and "falsification" (what observation would refute it)

Only distill what was actually said or clearly implied. Trivia, greetings
and filler produce nothing. If nothing is worth keeping, return [].

Exchange:
%s

Thoughts (JSON only, no explanation):`

type distilledThought struct {
	Mode       string   `json:"mode"`
	Thought    string   `json:"thought"`
	Confidence float64  `json:"confidence"`
	NextAction string   `json:"next_action"`
	Concepts   []string `json:"concepts"`
	Hypothesis *struct {
		Statement     string `json:"statement"`
		Falsification string `json:"falsification"`
	} `json:"hypothesis"`
}

// reflect distills the latest exchange into ledger entries, concept graph
// updates and hypotheses. Runs off the request path; failures are logged
// and dropped.
func (a *Agent) reflect(ctx context.Context, userMessage, assistantResponse string) {
	exchange := fmt.Sprintf("user: %s\nassistant: %s\n", userMessage, assistantResponse)
	a.distill(ctx, exchange, "")
}

// distillOverflow runs the same pass over messages evicted from the
// conversation buffer, so nothing falls out of the rolling window without
// a chance to become a ledger entry.
func (a *Agent) distillOverflow(ctx context.Context, overflow []conversation.Message) {
	var sb strings.Builder
	for _, m := range overflow {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
	}
	a.distill(ctx, sb.String(), "")
}

func (a *Agent) distill(ctx context.Context, transcript, cycleID string) {
	prompt := fmt.Sprintf(reflectPrompt, transcript)

	response, err := a.extractor.Chat(ctx, "", []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		logger.Error("reflection failed", "error", err)
		return
	}

	thoughts, err := parseDistilled(response)
	if err != nil {
		logger.Error("reflection parse failed", "error", err, "response", response)
		return
	}

	if len(thoughts) == 0 {
		logger.Debug("nothing distilled")
		return
	}

	for _, th := range thoughts {
		if !validMode(th.Mode) {
			logger.Warn("distilled thought has bad mode, skipping", "mode", th.Mode)
			continue
		}

		entry, err := a.memory.AppendWithContext(ctx, th.Mode, th.Thought, th.Confidence, th.NextAction, cycleID)
		if err != nil {
			logger.Error("failed to append distilled thought", "error", err)
			continue
		}
		logger.Debug("thought distilled", "mode", th.Mode, "uid", entry.UID)

		a.linkConcepts(th.Concepts)

		if th.Hypothesis != nil && th.Hypothesis.Statement != "" {
			if _, err := a.memory.ProposeHypothesis(th.Hypothesis.Statement, th.Confidence, th.Hypothesis.Falsification); err != nil {
				logger.Error("failed to propose distilled hypothesis", "error", err)
			}
		}
	}
}

// linkConcepts ensures each label has a neuron and wires consecutive
// labels together, reinforcing edges that already exist.
func (a *Agent) linkConcepts(labels []string) {
	var prev *noemamem.Neuron

	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}

		neuron, err := a.memory.FindNeuronByLabel(label)
		if err != nil {
			neuron, err = a.memory.CreateNeuron(label, "concept", 0.1, "")
			if err != nil {
				logger.Error("failed to create concept neuron", "label", label, "error", err)
				continue
			}
			logger.Debug("concept neuron created", "label", label)
		}

		if prev != nil {
			if err := a.linkOrReinforce(prev, neuron); err != nil {
				logger.Error("failed to link concepts", "from", prev.Label, "to", neuron.Label, "error", err)
			}
		}
		prev = neuron
	}
}

// linkOrReinforce strengthens an existing edge between the two neurons or
// creates a weak one. Repeated co-occurrence is what makes a connection
// strong, not a single mention.
func (a *Agent) linkOrReinforce(from, to *noemamem.Neuron) error {
	edges, err := a.memory.ConnectedEdges(from.ID)
	if err != nil {
		return err
	}

	for _, e := range edges {
		if e.SourceID == to.ID || e.TargetID == to.ID {
			return a.memory.ReinforceEdge(e.ID, 0.1)
		}
	}

	_, err = a.memory.AddEdge(from.ID, to.ID, "related", 0.3)
	return err
}

func validMode(mode string) bool {
	switch mode {
	case noemamem.ModeObserve, noemamem.ModeReflect, noemamem.ModeHypothesize,
		noemamem.ModeDecide, noemamem.ModeAct, noemamem.ModeDream:
		return true
	}
	return false
}

func parseDistilled(response string) ([]distilledThought, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")

	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found")
	}

	var thoughts []distilledThought
	if err := json.Unmarshal([]byte(response[start:end+1]), &thoughts); err != nil {
		return nil, err
	}

	return thoughts, nil
}
