package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath  = "config.toml"
	DefaultHTTPAddr    = ":5040"
	DefaultGeminiModel = "gemini-1.5-flash-latest"
	DefaultPGHost      = "127.0.0.1"
	DefaultPGPort      = 5432
	DefaultPGUser      = "postgres"
	DefaultPGDatabase  = "nimbus"
	DefaultPGSSLMode   = "disable"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Search   SearchConfig   `toml:"search"`
	Postgres PostgresConfig `toml:"postgres"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type TelegramConfig struct {
	// AppID and AppHash identify the application to the platform; the Bot
	// API transport only needs the bot token, but both are accepted so a
	// config file can carry the full credential set.
	AppID    string `toml:"app_id"`
	AppHash  string `toml:"app_hash"`
	BotToken string `toml:"bot_token"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type SearchConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
	// ConnURL, when set, is used verbatim instead of the component
	// fields (the scheme is swapped per driver). DATABASE_URL feeds it.
	ConnURL string `toml:"conn_url"`
}

// URL renders the Postgres configuration as a connection URL for the
// given driver scheme.
func (c PostgresConfig) URL(scheme string) string {
	if c.ConnURL != "" {
		if idx := strings.Index(c.ConnURL, "://"); idx >= 0 {
			return scheme + c.ConnURL[idx:]
		}
		return c.ConnURL
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s?sslmode=%s",
		scheme, c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Load reads the TOML config at path (defaults applied first), then
// overlays secrets from the environment. A missing config file is not an
// error; env-only deployments are supported.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays environment variables onto the loaded config. Env
// values win so secrets never have to live in the config file.
func applyEnv(cfg *Config) {
	setString(&cfg.Telegram.AppID, "TELEGRAM_API_ID")
	setString(&cfg.Telegram.AppHash, "TELEGRAM_API_HASH")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.Search.APIKey, "SERPER_API_KEY")
	setString(&cfg.Postgres.ConnURL, "DATABASE_URL")
	setString(&cfg.Postgres.Host, "PGHOST")
	setString(&cfg.Postgres.User, "PGUSER")
	setString(&cfg.Postgres.Password, "PGPASSWORD")
	setString(&cfg.Postgres.Database, "PGDATABASE")
	setString(&cfg.Postgres.SSLMode, "PGSSLMODE")
	if value, ok := os.LookupEnv("PGPORT"); ok {
		if port, err := strconv.Atoi(value); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if value, ok := os.LookupEnv("PORT"); ok && value != "" {
		cfg.Server.Addr = ":" + value
	}
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

// Validate reports the first missing required credential.
func (c Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (TELEGRAM_BOT_TOKEN)")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required (GEMINI_API_KEY)")
	}
	if c.Search.APIKey == "" {
		return fmt.Errorf("search api key is required (SERPER_API_KEY)")
	}
	return nil
}
