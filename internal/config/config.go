package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type StoreBackend string

const (
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN,required"`

	// Webhook settings. When PublicHostname is empty the bot falls back
	// to long polling.
	PublicHostname string `env:"RENDER_EXTERNAL_HOSTNAME"`
	Port           int    `env:"PORT" envDefault:"8080"`

	// LLM settings. An empty OpenAIAPIKey disables real generation and
	// the content bot serves canned examples only.
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	StoreBackend  StoreBackend `env:"STORE_BACKEND" envDefault:"file"`
	UsersFilePath string       `env:"USERS_FILE_PATH" envDefault:"data/users.json"`
	SQLitePath    string       `env:"SQLITE_PATH" envDefault:"data/portfolio_bots.db"`

	// Analytics sink. Credentials are resolved in order: env JSON, then
	// file. Absence of both disables the sink.
	SheetsCredentialsJSON string `env:"GOOGLE_SHEETS_CREDENTIALS_JSON"`
	SheetsCredentialsFile string `env:"GOOGLE_SHEETS_CREDENTIALS_FILE" envDefault:"gsheets_credentials.json"`
	SpreadsheetID         string `env:"SPREADSHEET_ID"`

	// Subscription terms
	TrialDays int `env:"TRIAL_DAYS" envDefault:"3"`
	PaidDays  int `env:"PAID_DAYS" envDefault:"30"`
	PriceRUB  int `env:"PRICE_RUB" envDefault:"500"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
