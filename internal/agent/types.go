package agent

import (
	"time"

	"github.com/noemalabs/noema/internal/alerts"
	"github.com/noemalabs/noema/internal/budget"
	"github.com/noemalabs/noema/internal/conversation"
	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/session"
	"github.com/noemalabs/noema/internal/tools"
	"github.com/noemalabs/noema/pkg/noemamem"
)

type NotifyFunc func(chatID int64, message string)

// TriggerFunc runs a scheduled prompt through the agent loop and returns
// the response.
type TriggerFunc func(chatID int64, sessionID string, prompt string) (string, error)

type Agent struct {
	llm           llm.LLM
	extractor     llm.LLM
	memory        *noemamem.Store
	sessions      *session.Store
	conversations *conversation.Store
	tools         *tools.Registry
	systemPrompt  string
	timezone      *time.Location
	notify        NotifyFunc
	budget        *budget.Tracker
	provider      string
	model         string
	alerts        *alerts.Alerter
}
