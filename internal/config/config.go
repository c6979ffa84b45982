package config

import (
	"fmt"
	"os"
	"strconv"
)

func Load() (*Config, error) {
	mindPath := os.Getenv("NOEMA_MIND")
	if mindPath == "" {
		mindPath = "noema.db"
	}

	proceduresPath := os.Getenv("NOEMA_PROCEDURES")

	timezone := os.Getenv("TZ")
	if timezone == "" {
		timezone = "UTC"
	}

	llmConfig, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	extractorConfig, err := loadExtractorConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		MindPath:       mindPath,
		ProceduresPath: proceduresPath,
		Timezone:       timezone,
		LLM:            llmConfig,
		Extractor:      extractorConfig,
		Embedder:       loadEmbedderConfig(),
		Bots:           loadMultiBotConfig(),
		Wake:           loadWakeConfig(),
		Decay:          loadDecayConfig(),
		Budget:         loadBudgetConfig(),
		Storage:        loadStorageConfig(),
		Heartbeat:      loadHeartbeatConfig(),
	}, nil
}

func loadWakeConfig() WakeConfig {
	spec := os.Getenv("WAKE_CRON")
	if spec == "" {
		spec = "0 * * * *" // hourly
	}

	return WakeConfig{
		Enabled:  os.Getenv("WAKE_ENABLED") != "false",
		CronSpec: spec,
	}
}

func loadDecayConfig() DecayConfig {
	minAge := 30
	if days, err := strconv.Atoi(os.Getenv("DECAY_MIN_AGE_DAYS")); err == nil && days > 0 {
		minAge = days
	}

	threshold := 0.25
	if t, err := strconv.ParseFloat(os.Getenv("DECAY_SALIENCE_THRESHOLD"), 64); err == nil && t > 0 && t < 1 {
		threshold = t
	}

	return DecayConfig{
		Enabled:           os.Getenv("DECAY_ENABLED") != "false",
		MinAgeDays:        minAge,
		SalienceThreshold: threshold,
	}
}

func loadStorageConfig() StorageConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "noema"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return StorageConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

func loadBudgetConfig() BudgetConfig {
	enabled := os.Getenv("BUDGET_ENABLED") == "true"

	dailyLimit := 100000 // tokens
	if limit, err := strconv.Atoi(os.Getenv("BUDGET_DAILY_LIMIT")); err == nil && limit > 0 {
		dailyLimit = limit
	}

	warnAt := 0.8
	if warn, err := strconv.ParseFloat(os.Getenv("BUDGET_WARN_AT"), 64); err == nil && warn > 0 && warn < 1 {
		warnAt = warn
	}

	return BudgetConfig{
		Enabled:    enabled,
		DailyLimit: dailyLimit,
		WarnAt:     warnAt,
	}
}

func loadMultiBotConfig() MultiBot {
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	discordToken := os.Getenv("DISCORD_TOKEN")

	return MultiBot{
		Telegram: BotInstance{
			Enabled: telegramToken != "",
			Token:   telegramToken,
		},
		Discord: BotInstance{
			Enabled: discordToken != "",
			Token:   discordToken,
		},
	}
}

func loadHeartbeatConfig() HeartbeatConfig {
	var chatID int64
	if id, err := strconv.ParseInt(os.Getenv("HEARTBEAT_CHAT_ID"), 10, 64); err == nil {
		chatID = id
	}

	return HeartbeatConfig{
		ChatID: chatID,
	}
}

func loadEmbedderConfig() EmbedderConfig {
	return EmbedderConfig{
		Provider: os.Getenv("EMBEDDER_PROVIDER"),
		BaseURL:  os.Getenv("EMBEDDER_URL"),
		Model:    os.Getenv("EMBEDDER_MODEL"),
	}
}

func loadLLMConfig() (LLMConfig, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = DetectProvider()
	}

	apiKey, err := getAPIKey(provider, "LLM")
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}, nil
}

// loadExtractorConfig configures the model used for structured extraction
// during reflection. Cheaper and smaller than the main model by default.
func loadExtractorConfig() (LLMConfig, error) {
	provider := os.Getenv("EXTRACTOR_PROVIDER")
	if provider == "" {
		provider = DetectProvider()
	}

	apiKey, err := getAPIKey(provider, "EXTRACTOR")
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    os.Getenv("EXTRACTOR_MODEL"),
		BaseURL:  os.Getenv("EXTRACTOR_BASE_URL"),
	}, nil
}

// DetectProvider picks a provider from whichever API key is present,
// falling back to local ollama.
func DetectProvider() string {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return "claude"
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return "openai"
	}
	return "ollama"
}

// EnvKeyForProvider returns the conventional API key env var for a provider.
func EnvKeyForProvider(provider string) string {
	switch provider {
	case "claude":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "ollama":
		return ""
	default:
		return envUpper(provider) + "_API_KEY"
	}
}

func envUpper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func getAPIKey(provider, prefix string) (string, error) {
	envKey := os.Getenv(prefix + "_API_KEY")
	if envKey != "" {
		return envKey, nil
	}

	keyVar := EnvKeyForProvider(provider)
	if keyVar == "" {
		// Ollama doesn't need an API key
		return "ollama", nil
	}

	key := os.Getenv(keyVar)
	if key == "" {
		return "", fmt.Errorf("%s not set", keyVar)
	}
	return key, nil
}
