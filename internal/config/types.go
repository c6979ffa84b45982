package config

type Config struct {
	MindPath       string
	ProceduresPath string
	Timezone       string
	LLM            LLMConfig
	Extractor      LLMConfig
	Embedder       EmbedderConfig
	Bots           MultiBot
	Wake           WakeConfig
	Decay          DecayConfig
	Budget         BudgetConfig
	Storage        StorageConfig
	Heartbeat      HeartbeatConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

type EmbedderConfig struct {
	Provider string
	BaseURL  string
	Model    string
}

type BotInstance struct {
	Enabled bool
	Token   string
}

type MultiBot struct {
	Telegram BotInstance
	Discord  BotInstance
}

type WakeConfig struct {
	Enabled  bool
	CronSpec string
}

type DecayConfig struct {
	Enabled           bool
	MinAgeDays        int
	SalienceThreshold float64
}

type BudgetConfig struct {
	Enabled    bool
	DailyLimit int
	WarnAt     float64
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type HeartbeatConfig struct {
	ChatID int64
}
