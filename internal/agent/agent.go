package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noemalabs/noema/internal/alerts"
	"github.com/noemalabs/noema/internal/budget"
	"github.com/noemalabs/noema/internal/conversation"
	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/internal/session"
	"github.com/noemalabs/noema/internal/tools"
	"github.com/noemalabs/noema/pkg/noemamem"
)

const maxToolIterations = 10

const systemPrompt = `You are Noema, a persistent mind. Your identity is an
append-only ledger of thoughts plus a graph of weighted concepts; everything
you don't write down decays and is eventually forgotten.

Operating principles:
- Recall before you opine. Use recall_memory whenever a topic might touch
  something you've thought about before.
- Record what matters. Append observations, reflections, decisions and
  actions to the ledger with your honest confidence. Thoughts you never
  record did not happen.
- Think in hypotheses. Claims about the world should become falsifiable
  hypotheses, and evidence should be recorded as validations - your
  calibration score depends on it.
- Own your failures. Log them with the lesson learned; they feed the
  post-mortem journal.

Answer plainly. Do not narrate your tool use.`

func New(model, extractor llm.LLM, memory *noemamem.Store, conversations *conversation.Store, registry *tools.Registry, timezone string) *Agent {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}

	return &Agent{
		llm:           model,
		extractor:     extractor,
		memory:        memory,
		sessions:      session.NewStore(),
		conversations: conversations,
		tools:         registry,
		systemPrompt:  systemPrompt,
		timezone:      loc,
	}
}

func (a *Agent) SetNotifyFunc(fn NotifyFunc) {
	a.notify = fn
	a.tools.SetNotify(tools.NotifyFunc(fn))
}

// SetBudget wires the token tracker. Provider and model label the rows in
// the usage table so per-model breakdowns mean something.
func (a *Agent) SetBudget(b *budget.Tracker, provider, model string) {
	a.budget = b
	a.provider = provider
	a.model = model
}

func (a *Agent) SetAlerter(alerter *alerts.Alerter) {
	a.alerts = alerter
}

func (a *Agent) Registry() *tools.Registry {
	return a.tools
}

func (a *Agent) Memory() *noemamem.Store {
	return a.memory
}

func (a *Agent) Process(ctx context.Context, sessionID string, userMessage string) (string, error) {
	logger.Debug("message received", "session", sessionID)

	sess := a.sessions.Get(sessionID)

	// prevent concurrent processing of same session
	if !sess.TryAcquire() {
		logger.Debug("session busy, queueing message", "session", sessionID)
		sess.Queue(userMessage, true)
		return "", nil
	}
	defer sess.Release()

	response, err := a.processLocked(ctx, sessionID, sess, userMessage)
	if err != nil {
		return "", err
	}

	// drain anything queued while we were busy
	for {
		queued := sess.Dequeue()
		if queued == nil {
			break
		}
		followup, err := a.processLocked(ctx, sessionID, sess, queued.Content)
		if err != nil {
			logger.Error("queued message failed", "session", sessionID, "error", err)
			break
		}
		if a.notify != nil && followup != "" {
			a.notify(a.parseChatID(sessionID), followup)
		}
	}

	return response, nil
}

func (a *Agent) processLocked(ctx context.Context, sessionID string, sess *session.Session, userMessage string) (string, error) {
	if len(sess.Messages()) == 0 {
		a.restoreConversation(sessionID, sess)
	}

	sess.AddMessage("user", userMessage, nil, "")
	a.bufferMessage(sessionID, "user", userMessage)

	ctx = tools.WithChatID(ctx, a.parseChatID(sessionID))

	response, err := a.runAgentLoop(ctx, sess)
	if err != nil {
		logger.Error("agent loop failed", "error", err)
		return "", err
	}

	a.bufferMessage(sessionID, "assistant", response)

	go a.reflect(context.WithoutCancel(ctx), userMessage, response)

	return response, nil
}

// restoreConversation reloads the recent-message buffer into a fresh
// in-memory session so a restart doesn't lose the thread.
func (a *Agent) restoreConversation(sessionID string, sess *session.Session) {
	if a.conversations == nil {
		return
	}

	recent, err := a.conversations.GetRecent(sessionID)
	if err != nil {
		logger.Error("conversation restore failed", "session", sessionID, "error", err)
		return
	}

	for _, m := range recent {
		sess.AddMessage(m.Role, m.Content, nil, "")
	}

	if len(recent) > 0 {
		logger.Debug("conversation restored", "session", sessionID, "messages", len(recent))
	}
}

// bufferMessage writes a message to the durable rolling buffer. Messages
// that fall off the end get distilled into the ledger before they vanish.
func (a *Agent) bufferMessage(sessionID, role, content string) {
	if a.conversations == nil || content == "" {
		return
	}

	result, err := a.conversations.Add(sessionID, role, content)
	if err != nil {
		logger.Error("conversation buffer failed", "session", sessionID, "error", err)
		return
	}

	if len(result.Overflow) > 0 {
		go a.distillOverflow(context.Background(), result.Overflow)
	}
}

func (a *Agent) parseChatID(sessionID string) int64 {
	// format: "telegram:123456" or "discord:123456"
	parts := strings.Split(sessionID, ":")
	if len(parts) != 2 {
		return 0
	}
	id, _ := strconv.ParseInt(parts[1], 10, 64)
	return id
}

func (a *Agent) runAgentLoop(ctx context.Context, sess *session.Session) (string, error) {
	availableTools := a.tools.Tools()

	for i := range maxToolIterations {
		logger.Debug("agent loop iteration", "iteration", i, "messages", len(sess.Messages()))

		resp, err := a.llm.ChatWithTools(ctx, a.systemPrompt, sess.Messages(), availableTools)
		if err != nil {
			if a.alerts != nil {
				a.alerts.Critical("llm", "Chat request failed", err)
			}
			return "", err
		}

		if resp.Usage != nil && a.budget != nil {
			if !a.budget.Record(a.provider, a.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens) {
				return "I've reached my daily token budget. I'll be back tomorrow.", nil
			}
		}

		if len(resp.ToolCalls) == 0 {
			logger.Debug("llm response (final)", "chars", len(resp.Content))
			sess.AddMessage("assistant", resp.Content, nil, "")
			return resp.Content, nil
		}

		logger.Debug("llm requested tools", "count", len(resp.ToolCalls))
		sess.AddMessage("assistant", resp.Content, resp.ToolCalls, "")

		for _, tc := range resp.ToolCalls {
			logger.Debug("executing tool", "name", tc.Name, "id", tc.ID)

			result, err := a.tools.Execute(ctx, tc.Name, tc.Arguments)
			if err != nil {
				result = "Error: " + err.Error()
			}

			logger.Debug("tool result", "name", tc.Name, "chars", len(result))
			sess.AddMessage("tool", result, nil, tc.ID)
		}
	}

	logger.Warn("agent loop hit max iterations", "max", maxToolIterations)
	if _, err := a.memory.LogFailure("", "agent-loop", fmt.Sprintf("hit max tool iterations (%d)", maxToolIterations), noemamem.SeverityMinor, "break the task down before calling tools"); err != nil {
		logger.Error("failed to log loop failure", "error", err)
	}
	return "I couldn't converge on an answer this time. Try rephrasing or narrowing the question.", nil
}

// ProcessSystemTrigger handles a scheduled trigger. Unlike user messages,
// triggers don't queue behind the session lock - they run in their own
// context so schedules fire even mid-conversation.
func (a *Agent) ProcessSystemTrigger(ctx context.Context, sessionID string, triggerPrompt string) (string, error) {
	logger.Debug("system trigger received", "session", sessionID)

	sess := a.sessions.Get(sessionID)
	sess.AddMessage("user", triggerPrompt, nil, "")

	ctx = tools.WithChatID(ctx, a.parseChatID(sessionID))

	response, err := a.runAgentLoop(ctx, sess)
	if err != nil {
		logger.Error("system trigger processing failed", "error", err)
		return "", err
	}

	return response, nil
}
