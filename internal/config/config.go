package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"chat-relay/bot/internal/database"
	app_errors "chat-relay/bot/internal/errors"
)

const (
	TelegramTokenKey = "TELEGRAM_BOT_TOKEN"
	GeminiAPIKeyKey  = "GEMINI_API_KEY"
)

type Config struct {
	TelegramBotToken  string        `mapstructure:"TELEGRAM_BOT_TOKEN" validate:"required"`
	GeminiAPIKey      string        `mapstructure:"GEMINI_API_KEY" validate:"required"`
	SecretsDir        string        `mapstructure:"SECRETS_DIR"`
	TelegramAPIURL    string        `mapstructure:"TELEGRAM_API_URL" validate:"required,url"`
	GeminiAPIURL      string        `mapstructure:"GEMINI_API_URL" validate:"required,url"`
	FastModel         string        `mapstructure:"FAST_MODEL" validate:"required"`
	CapableModel      string        `mapstructure:"CAPABLE_MODEL" validate:"required"`
	SystemInstruction string        `mapstructure:"SYSTEM_INSTRUCTION"`
	MaxHistory        int           `mapstructure:"MAX_HISTORY" validate:"min=1"`
	HistoryBackend    string        `mapstructure:"HISTORY_BACKEND" validate:"oneof=memory sqlite"`
	DatabasePath      string        `mapstructure:"DATABASE_PATH" validate:"required_if=HistoryBackend sqlite,memory_dsn"`
	WorkerPoolSize    int           `mapstructure:"WORKER_POOL_SIZE" validate:"min=1"`
	WorkerQueueSize   int           `mapstructure:"WORKER_QUEUE_SIZE" validate:"min=1"`
	GenerationTimeout time.Duration `mapstructure:"GENERATION_TIMEOUT"`
	PollTimeout       int           `mapstructure:"POLL_TIMEOUT" validate:"min=0"`
	HTTPAddr          string        `mapstructure:"HTTP_ADDR"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault(TelegramTokenKey, "")
	viper.SetDefault(GeminiAPIKeyKey, "")
	viper.SetDefault("SECRETS_DIR", "/run/secrets")
	viper.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")
	viper.SetDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("FAST_MODEL", "gemini-1.5-flash-latest")
	viper.SetDefault("CAPABLE_MODEL", "gemini-1.5-pro")
	viper.SetDefault("SYSTEM_INSTRUCTION", "Intelligent assistant")
	viper.SetDefault("MAX_HISTORY", 50)
	viper.SetDefault("HISTORY_BACKEND", "memory")
	viper.SetDefault("DATABASE_PATH", "file:relay_history?mode=memory&cache=shared")
	viper.SetDefault("WORKER_POOL_SIZE", 8)
	viper.SetDefault("WORKER_QUEUE_SIZE", 64)
	viper.SetDefault("GENERATION_TIMEOUT", "120s")
	viper.SetDefault("POLL_TIMEOUT", 30)
	viper.SetDefault("HTTP_ADDR", "127.0.0.1:8000")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./bot")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: could not read config file: %v", app_errors.ErrConfig, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: could not decode config: %v", app_errors.ErrConfig, err)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveSecrets fills secrets missing from the environment from Docker
// secret files named after their key.
func (c *Config) resolveSecrets() error {
	for key, dst := range map[string]*string{
		TelegramTokenKey: &c.TelegramBotToken,
		GeminiAPIKeyKey:  &c.GeminiAPIKey,
	} {
		if *dst != "" {
			continue
		}
		value, err := readSecret(c.SecretsDir, key)
		if err != nil {
			return err
		}
		*dst = value
	}
	return nil
}

func readSecret(dir, name string) (string, error) {
	if dir == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: could not read secret %s: %v", app_errors.ErrConfig, name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Config) validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	// SQLite history must stay in memory.
	if err := v.RegisterValidation("memory_dsn", func(fl validator.FieldLevel) bool {
		dsn := fl.Field().String()
		return dsn == "" || database.IsMemoryDSN(dsn)
	}); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrConfig, err)
	}

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", app_errors.ErrConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case TelegramTokenKey, GeminiAPIKeyKey:
			msgs = append(msgs, fmt.Sprintf("no %s found in environment variables or secrets", fe.Field()))
		case "DATABASE_PATH":
			if fe.Tag() == "memory_dsn" {
				msgs = append(msgs, "DATABASE_PATH must be an in-memory SQLite DSN")
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", app_errors.ErrConfig, strings.Join(msgs, "; "))
}
