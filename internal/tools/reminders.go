package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noemalabs/noema/internal/cron"
	"github.com/noemalabs/noema/internal/llm"
)

type SetReminderArgs struct {
	Query     string `json:"query"`
	Schedule  string `json:"schedule"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

type CancelReminderArgs struct {
	Query string `json:"query"`
}

func RegisterReminderTools(registry *Registry, reminders *cron.Store) {
	setTool := llm.Tool{
		Name:        "set_reminder",
		Description: "Schedule a recurring memory recall. When it fires, the query is recalled from memory and you act on the results in this chat.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to recall when the reminder fires (e.g., 'hydration', 'deploy checklist')",
				},
				"schedule": map[string]any{
					"type":        "string",
					"description": "Standard 5-field cron expression (e.g., '0 9 * * *' for 9am daily)",
				},
				"expires_in": map[string]any{
					"type":        "string",
					"description": "Optional duration after which the reminder deletes itself (e.g., '72h'). Omit for never.",
				},
			},
			"required": []string{"query", "schedule"},
		},
	}

	registry.Register(setTool, func(ctx context.Context, args string) (string, error) {
		var params SetReminderArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		chatID := ChatIDFromContext(ctx)
		if chatID == 0 {
			return "", fmt.Errorf("no chat to deliver the reminder to")
		}

		var expiresAt *time.Time
		if params.ExpiresIn != "" {
			d, err := time.ParseDuration(params.ExpiresIn)
			if err != nil {
				return "", fmt.Errorf("invalid expires_in: %w", err)
			}
			t := time.Now().Add(d)
			expiresAt = &t
		}

		reminder, err := reminders.Create(params.Query, params.Schedule, chatID, expiresAt)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("Reminder set: %q on %q, next run %s.", reminder.Query, reminder.Schedule, reminder.NextRun.Format("2006-01-02 15:04")), nil
	})

	listTool := llm.Tool{
		Name:        "list_reminders",
		Description: "List active reminders for this chat.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	registry.Register(listTool, func(ctx context.Context, args string) (string, error) {
		chatID := ChatIDFromContext(ctx)
		if chatID == 0 {
			return "", fmt.Errorf("no chat context")
		}

		active, err := reminders.GetByChat(chatID)
		if err != nil {
			return "", err
		}
		if len(active) == 0 {
			return "No active reminders.", nil
		}

		var sb strings.Builder
		for _, r := range active {
			fmt.Fprintf(&sb, "- %q on %q, next %s\n", r.Query, r.Schedule, r.NextRun.Format("2006-01-02 15:04"))
		}
		return sb.String(), nil
	})

	cancelTool := llm.Tool{
		Name:        "cancel_reminder",
		Description: "Cancel a reminder by its query.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Query of the reminder to cancel",
				},
			},
			"required": []string{"query"},
		},
	}

	registry.Register(cancelTool, func(ctx context.Context, args string) (string, error) {
		var params CancelReminderArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		chatID := ChatIDFromContext(ctx)
		if chatID == 0 {
			return "", fmt.Errorf("no chat context")
		}

		if err := reminders.DeleteByQuery(params.Query, chatID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Reminder %q cancelled.", params.Query), nil
	})
}
