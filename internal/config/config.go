package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN,required"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`

	// Google Sheets
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"credentials.json"`
	DefaultSpreadsheetID  string `env:"DEFAULT_SPREADSHEET_ID,required"`
	DefaultSheetName      string `env:"DEFAULT_SHEET_NAME" envDefault:"Sheet1"`

	// Storage
	SessionFilePath string `env:"SESSION_FILE_PATH" envDefault:"data/sessions.json"`
	AuditLogPath    string `env:"AUDIT_LOG_PATH" envDefault:"logs/transactions.jsonl"`

	// Behavior
	SheetsTimeout    time.Duration `env:"SHEETS_TIMEOUT" envDefault:"15s"`
	RecapCron        string        `env:"RECAP_CRON" envDefault:"0 21 * * *"`
	MessageParseMode string        `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
