package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/noemalabs/noema/internal/config"
	"github.com/noemalabs/noema/internal/logger"
	"github.com/noemalabs/noema/internal/storage"
	"github.com/noemalabs/noema/internal/vitals"
	"github.com/noemalabs/noema/pkg/noemamem"
)

const usage = `noemactl - inspect and maintain a mind file

Usage:
  noemactl bootstrap            print the master_bootstrap snapshot as JSON
  noemactl ledger [n]           print the n most recent ledger entries (default 20)
  noemactl viability            compute and record a viability sample
  noemactl decay                run the forgetting pass now
  noemactl calibrate            print the calibration table and Brier score
  noemactl backup               upload a mind snapshot to the object bucket

The mind file path comes from NOEMA_MIND (default noema.db).`

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	memory, err := noemamem.Open(cfg.MindPath)
	if err != nil {
		logger.Fatal("failed to open mind", "error", err, "path", cfg.MindPath)
	}
	defer memory.Close()

	switch os.Args[1] {
	case "bootstrap":
		runBootstrap(memory)
	case "ledger":
		runLedger(memory, os.Args[2:])
	case "viability":
		runViability(memory, cfg.MindPath)
	case "decay":
		runDecay(memory, cfg)
	case "calibrate":
		runCalibrate(memory)
	case "backup":
		runBackup(cfg)
	default:
		fmt.Printf("unknown command: %s\n\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}
}

func runBootstrap(memory *noemamem.Store) {
	snapshot, err := memory.BootstrapJSON()
	if err != nil {
		logger.Fatal("bootstrap failed", "error", err)
	}
	fmt.Println(snapshot)
}

func runLedger(memory *noemamem.Store, args []string) {
	limit := 20
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := memory.Tail(limit)
	if err != nil {
		logger.Fatal("ledger read failed", "error", err)
	}

	for _, e := range entries {
		fmt.Printf("%s  [%-11s conf %.2f]  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Mode, e.Confidence, e.Thought)
		if e.NextAction != "" {
			fmt.Printf("%20s next: %s\n", "", e.NextAction)
		}
	}
}

func runViability(memory *noemamem.Store, mindPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sample, err := memory.SampleViability("", vitals.Sample(ctx, mindPath))
	if err != nil {
		logger.Fatal("viability sample failed", "error", err)
	}

	fmt.Printf("viability:    %.3f\n", sample.Viability)
	fmt.Printf("coherence:    %.3f\n", sample.Coherence)
	fmt.Printf("calibration:  %.3f\n", sample.Calibration)
	fmt.Printf("groundedness: %.3f\n", sample.Groundedness)
	fmt.Printf("vitality:     %.3f\n", sample.Vitality)
}

func runDecay(memory *noemamem.Store, cfg *config.Config) {
	decayCfg := noemamem.DefaultDecayConfig()
	decayCfg.MinAgeDays = cfg.Decay.MinAgeDays
	decayCfg.SalienceThreshold = cfg.Decay.SalienceThreshold

	report, err := memory.Decay(decayCfg)
	if err != nil {
		logger.Fatal("decay failed", "error", err)
	}

	fmt.Printf("entries dropped: %d\n", report.EntriesDropped)
	fmt.Printf("neurons relaxed: %d\n", report.NeuronsRelaxed)
	fmt.Printf("edges weakened:  %d\n", report.EdgesWeakened)
	fmt.Printf("edges pruned:    %d\n", report.EdgesDeleted)
}

func runCalibrate(memory *noemamem.Store) {
	buckets, err := memory.Calibrate()
	if err != nil {
		logger.Fatal("calibration failed", "error", err)
	}

	score, err := memory.CalibrationScore()
	if err != nil {
		logger.Fatal("calibration score failed", "error", err)
	}

	fmt.Println("bucket  predicted  observed  samples  brier")
	for _, b := range buckets {
		if b.Samples == 0 {
			continue
		}
		fmt.Printf("%d.%d     %.2f       %.2f      %d        %.4f\n", b.Bucket/10, b.Bucket%10, b.Predicted, b.Observed, b.Samples, b.Brier)
	}
	fmt.Printf("\ncalibration score: %.3f\n", score)
}

func runBackup(cfg *config.Config) {
	if !cfg.Storage.Enabled {
		logger.Fatal("storage not configured, set MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
	}

	client, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("storage client failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := client.Init(ctx); err != nil {
		logger.Fatal("storage init failed", "error", err)
	}

	name, err := client.BackupMind(ctx, cfg.MindPath)
	if err != nil {
		logger.Fatal("backup failed", "error", err)
	}

	fmt.Printf("snapshot uploaded: %s\n", name)
}
