package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noemalabs/noema/internal/llm"
)

type Handler func(ctx context.Context, args string) (string, error)

type NotifyFunc func(chatID int64, message string)

type Registry struct {
	tools    []llm.Tool
	handlers map[string]Handler
	notify   NotifyFunc
}

type contextKey string

const chatIDKey contextKey = "chat_id"

// WithChatID tags a context with the originating chat so tools can send
// out-of-band notifications.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

func ChatIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(chatIDKey).(int64); ok {
		return id
	}
	return 0
}

func unmarshalArgs(args string, v any) error {
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
