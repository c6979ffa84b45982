package bot

import (
	"fmt"

	"github.com/noemalabs/noema/internal/agent"
)

func New(cfg Config, agent *agent.Agent) (Bot, error) {
	switch cfg.Provider {
	case "telegram":
		return newTelegram(cfg.Token, agent, cfg.OwnerChatID)
	case "discord":
		return newDiscord(cfg.Token, agent)
	default:
		return nil, fmt.Errorf("unknown bot provider: %s", cfg.Provider)
	}
}
