package bot

import "context"

type Bot interface {
	Start(ctx context.Context) error
	Send(chatID int64, message string) error
}

type Config struct {
	Provider    string
	Token       string
	OwnerChatID int64 // Telegram: restrict to this chat ID (0 = open)
}
