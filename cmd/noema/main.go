package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/noemalabs/noema/internal/agent"
	"github.com/noemalabs/noema/internal/alerts"
	"github.com/noemalabs/noema/internal/bot"
	"github.com/noemalabs/noema/internal/budget"
	"github.com/noemalabs/noema/internal/config"
	"github.com/noemalabs/noema/internal/conversation"
	"github.com/noemalabs/noema/internal/cron"
	"github.com/noemalabs/noema/internal/embedder"
	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/internal/storage"
	"github.com/noemalabs/noema/internal/tools"
	"github.com/noemalabs/noema/internal/vitals"
	"github.com/noemalabs/noema/pkg/noemamem"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	model, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Fatal("failed to create llm", "error", err)
	}

	extractor, err := llm.New(llm.Config{
		Provider: cfg.Extractor.Provider,
		APIKey:   cfg.Extractor.APIKey,
		Model:    cfg.Extractor.Model,
		BaseURL:  cfg.Extractor.BaseURL,
	})
	if err != nil {
		logger.Fatal("failed to create extractor", "error", err)
	}

	memory, err := noemamem.Open(cfg.MindPath)
	if err != nil {
		logger.Fatal("failed to open mind", "error", err)
	}
	defer memory.Close()

	emb, err := embedder.New(embedder.Config{
		Provider: cfg.Embedder.Provider,
		BaseURL:  cfg.Embedder.BaseURL,
		Model:    cfg.Embedder.Model,
	})
	if err != nil {
		logger.Fatal("failed to create embedder", "error", err)
	}

	if emb != nil {
		memory.SetEmbedder(emb)
		logger.Debug("embedder configured", "provider", cfg.Embedder.Provider)
	}

	// operator procedure overrides
	if cfg.ProceduresPath != "" {
		procs, err := config.LoadProcedures(cfg.ProceduresPath)
		if err != nil {
			logger.Fatal("failed to load procedures", "error", err)
		}
		if err := memory.SeedProcedures(procs); err != nil {
			logger.Fatal("failed to seed procedures", "error", err)
		}
		logger.Info("procedures loaded", "path", cfg.ProceduresPath, "count", len(procs))
	}

	registry := tools.NewRegistry()
	tools.RegisterMemoryTools(registry, memory)
	tools.RegisterEpistemicsTools(registry, memory)
	tools.RegisterViabilityTools(registry, memory, cfg.MindPath)
	tools.RegisterSystemTools(registry, cfg.MindPath)

	// reminder store shares the mind file
	reminderStore, err := cron.NewStore(memory.DB())
	if err != nil {
		logger.Fatal("failed to create reminder store", "error", err)
	}
	tools.RegisterReminderTools(registry, reminderStore)

	// minio storage (optional)
	var storageClient *storage.Client
	if cfg.Storage.Enabled {
		storageClient, err = storage.NewClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create storage client", "error", err)
		} else {
			initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := storageClient.Init(initCtx); err != nil {
				logger.Error("failed to init storage bucket", "error", err)
				storageClient = nil
			} else {
				logger.Info("storage enabled", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
			}
			cancel()
		}
	}
	tools.RegisterStorageTools(registry, storageClient, cfg.MindPath)

	// conversation buffer for continuity across restarts
	convoStore, err := conversation.NewStore(memory.DB(), 0)
	if err != nil {
		logger.Fatal("failed to create conversation store", "error", err)
	}

	noema := agent.New(model, extractor, memory, convoStore, registry, cfg.Timezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var bots []bot.Bot
	var enabledProviders []string

	if cfg.Bots.Telegram.Enabled {
		b, err := bot.New(bot.Config{Provider: "telegram", Token: cfg.Bots.Telegram.Token, OwnerChatID: cfg.Heartbeat.ChatID}, noema)
		if err != nil {
			logger.Fatal("failed to create telegram bot", "error", err)
		}

		bots = append(bots, b)
		enabledProviders = append(enabledProviders, "telegram")

		go b.Start(ctx)
	}

	if cfg.Bots.Discord.Enabled {
		b, err := bot.New(bot.Config{Provider: "discord", Token: cfg.Bots.Discord.Token}, noema)
		if err != nil {
			logger.Fatal("failed to create discord bot", "error", err)
		}

		bots = append(bots, b)
		enabledProviders = append(enabledProviders, "discord")

		go b.Start(ctx)
	}

	if len(bots) == 0 {
		logger.Fatal("no bot providers enabled, set TELEGRAM_TOKEN or DISCORD_TOKEN")
	}

	notifyBot := bots[0]
	noema.SetNotifyFunc(func(chatID int64, message string) {
		if err := notifyBot.Send(chatID, message); err != nil {
			logger.Error("notification failed", "error", err, "chatID", chatID)
		}
	})

	tz, _ := time.LoadLocation(cfg.Timezone)

	if cfg.Budget.Enabled {
		tracker := budget.NewTracker(
			budget.Config{
				DailyLimit: cfg.Budget.DailyLimit,
				WarnAt:     cfg.Budget.WarnAt,
				Timezone:   tz,
			},

			func(used, limit int) {
				msg := fmt.Sprintf("Budget warning: %d/%d tokens used (%.0f%%). Approaching daily limit.", used, limit, float64(used)/float64(limit)*100)

				if cfg.Heartbeat.ChatID != 0 {
					notifyBot.Send(cfg.Heartbeat.ChatID, msg)
				}

				logger.Warn("budget warning", "used", used, "limit", limit)
			},

			func(used, limit int) {
				msg := fmt.Sprintf("Budget exceeded: %d/%d tokens. Responses disabled until tomorrow.", used, limit)

				if cfg.Heartbeat.ChatID != 0 {
					notifyBot.Send(cfg.Heartbeat.ChatID, msg)
				}

				logger.Error("budget exceeded", "used", used, "limit", limit)
			},
		)

		usageStore, err := budget.NewStore(memory.DB(), tz)
		if err != nil {
			logger.Error("failed to create usage store", "error", err)
		} else {
			tracker.SetStore(usageStore)
		}

		noema.SetBudget(tracker, cfg.LLM.Provider, cfg.LLM.Model)
		logger.Info("budget tracking enabled", "limit", cfg.Budget.DailyLimit, "warnAt", cfg.Budget.WarnAt)
	}

	if cfg.Heartbeat.ChatID != 0 {
		alerter := alerts.New(
			func(message string) {
				notifyBot.Send(cfg.Heartbeat.ChatID, message)
			},
			time.Hour,
		)
		noema.SetAlerter(alerter)
		logger.Info("error alerting enabled", "chatID", cfg.Heartbeat.ChatID)
	}

	// daily forgetting pass
	if cfg.Decay.Enabled {
		go func() {
			decayCfg := noemamem.DefaultDecayConfig()
			decayCfg.MinAgeDays = cfg.Decay.MinAgeDays
			decayCfg.SalienceThreshold = cfg.Decay.SalienceThreshold

			for range time.Tick(24 * time.Hour) {
				report, err := memory.Decay(decayCfg)
				if err != nil {
					logger.Error("decay failed", "error", err)
					continue
				}
				logger.Info("decay completed",
					"dropped", report.EntriesDropped,
					"relaxed", report.NeuronsRelaxed,
					"weakened", report.EdgesWeakened,
					"pruned", report.EdgesDeleted,
				)
			}
		}()
	}

	// reminder runner
	cronRunner := agent.NewCronRunner(
		reminderStore,
		memory,
		func(chatID int64, sessionID string, prompt string) (string, error) {
			return noema.ProcessSystemTrigger(ctx, sessionID, prompt)
		},
		func(chatID int64, msg string) {
			notifyBot.Send(chatID, msg)
		},
		tz,
	)
	go cronRunner.Run(ctx)

	// autonomous wake cycles
	if cfg.Wake.Enabled {
		go runWakeLoop(ctx, noema, cfg.Wake.CronSpec, cfg.MindPath)
		logger.Info("wake cycles enabled", "schedule", cfg.Wake.CronSpec)
	}

	// daily mind snapshots
	if storageClient != nil {
		go func() {
			for range time.Tick(24 * time.Hour) {
				snapCtx, cancel := context.WithTimeout(ctx, time.Minute)
				name, err := storageClient.BackupMind(snapCtx, cfg.MindPath)
				cancel()
				if err != nil {
					logger.Error("mind snapshot failed", "error", err)
				} else {
					logger.Info("mind snapshot saved", "name", name)
				}
			}
		}()
	}

	embedderProvider := cfg.Embedder.Provider
	if embedderProvider == "" {
		embedderProvider = "none"
	}

	logger.Info("noema started",
		"bots", enabledProviders,
		"llm", cfg.LLM.Provider,
		"embedder", embedderProvider,
		"mind", cfg.MindPath,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
}

// runWakeLoop sleeps until the next cron fire time, runs a wake cycle, and
// repeats. Schedule errors are fatal at startup, not mid-flight.
func runWakeLoop(ctx context.Context, noema *agent.Agent, spec, mindPath string) {
	for {
		next, err := cron.ComputeNextRun(spec)
		if err != nil {
			logger.Error("invalid wake schedule", "spec", spec, "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		wakeCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		if err := noema.Wake(wakeCtx, vitals.Sample(wakeCtx, mindPath)); err != nil {
			logger.Error("wake cycle failed", "error", err)
		}
		cancel()
	}
}
