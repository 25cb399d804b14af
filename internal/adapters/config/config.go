package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration. A missing upstream key
// disables the corresponding adapter, it never fails startup.
type Config struct {
	Server   ServerConfig
	Finnhub  FinnhubConfig
	NewsAPI  NewsAPIConfig
	Push     PushConfig
	Telegram TelegramConfig
	Logging  LoggingConfig
}

// ServerConfig represents HTTP/websocket server parameters
type ServerConfig struct {
	Port int `envconfig:"PORT" default:"8080"`
}

// FinnhubConfig represents the streaming news venue
type FinnhubConfig struct {
	APIKey string `envconfig:"FINNHUB_KEY" required:"false"`
	WSURL  string `envconfig:"FINNHUB_WS_URL" default:"wss://ws.finnhub.io"`
}

// NewsAPIConfig represents the polled search venue
type NewsAPIConfig struct {
	APIKey       string        `envconfig:"NEWSAPI_KEY" required:"false"`
	BaseURL      string        `envconfig:"NEWSAPI_BASE_URL" default:"https://newsapi.org/v2"`
	PollInterval time.Duration `envconfig:"NEWSAPI_POLL_INTERVAL" default:"60s"`
	PageSize     int           `envconfig:"NEWSAPI_PAGE_SIZE" default:"20"`
	Query        string        `envconfig:"NEWSAPI_QUERY" default:"stock OR market OR shares OR company OR sebi OR nse OR bse"`
}

// PushConfig represents the FCM push backend
type PushConfig struct {
	// CredentialsPath points to a file holding the FCM server key.
	// Empty or unreadable path disables push dispatch.
	CredentialsPath string `envconfig:"FCM_SERVICE_ACCOUNT_PATH" required:"false"`
	Topic           string `envconfig:"FCM_TOPIC" default:"stock_alerts"`
}

// TelegramConfig represents the optional Telegram alert channel
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1..65535")
	}
	if c.NewsAPI.PollInterval <= 0 {
		return fmt.Errorf("newsapi poll interval must be positive")
	}
	if c.NewsAPI.PageSize <= 0 || c.NewsAPI.PageSize > 100 {
		return fmt.Errorf("newsapi page size must be in 1..100")
	}
	return nil
}

// FinnhubEnabled reports whether the streaming adapter should start
func (c *Config) FinnhubEnabled() bool {
	return c.Finnhub.APIKey != ""
}

// NewsAPIEnabled reports whether the polling adapter should start
func (c *Config) NewsAPIEnabled() bool {
	return c.NewsAPI.APIKey != ""
}

// TelegramEnabled reports whether the Telegram channel should start
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
