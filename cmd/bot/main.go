package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"catatbot/internal/audit"
	"catatbot/internal/config"
	"catatbot/internal/scheduler"
	"catatbot/internal/session"
	"catatbot/internal/sheets"
	"catatbot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := session.NewFileStore(cfg.SessionFilePath)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}
	sessions := session.NewManager(store, session.Defaults{
		SpreadsheetID: cfg.DefaultSpreadsheetID,
		SheetName:     cfg.DefaultSheetName,
	})

	sheetsCli, err := sheets.NewService(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		log.Fatalf("failed to init sheets client: %v", err)
	}

	var rec audit.Recorder
	if cfg.AuditLogPath != "" {
		fr, err := audit.NewFileRecorder(cfg.AuditLogPath)
		if err != nil {
			log.Printf("failed to init audit recorder: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		sessions,
		sheetsCli,
		rec,
		cfg.AllowedUsers,
		cfg.MessageParseMode,
		cfg.SheetsTimeout,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New(cfg.RecapCron)
	sched.SetRecapFunction(bot.SendDailyRecap)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(ctx)
}
