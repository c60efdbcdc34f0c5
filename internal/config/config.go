package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultPort          = "8080"
	defaultDeepSeekURL   = "https://api.deepseek.com/v1"
	defaultDeepSeekModel = "deepseek-chat"
	defaultQueueSize     = 64
)

type Config struct {
	Port string

	BotToken      string
	WebhookSecret string
	TelegramURL   string

	DeepSeekKey   string
	DeepSeekURL   string
	DeepSeekModel string

	// OperatorChatID == 0: уведомления оператору выключены.
	OperatorChatID    int64
	OperatorQueueSize int

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PhrasesFile string
}

// Load читает .env (если есть), окружение и флаги.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] .env: %v", err)
	}
	return Parse(os.Getenv, args)
}

// Parse собирает конфиг из getenv; флаги перекрывают окружение.
func Parse(getenv func(string) string, args []string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Port:          env("PORT", defaultPort),
		BotToken:      env("BOT_TOKEN", ""),
		WebhookSecret: env("WEBHOOK_SECRET", ""),
		TelegramURL:   env("TELEGRAM_API_URL", ""),
		DeepSeekKey:   env("DEEPSEEK_API_KEY", ""),
		DeepSeekURL:   env("DEEPSEEK_API_URL", defaultDeepSeekURL),
		DeepSeekModel: env("DEEPSEEK_MODEL", defaultDeepSeekModel),
		DatabaseURL:   env("DATABASE_URL", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPassword: env("REDIS_PASSWORD", ""),
		PhrasesFile:   env("PHRASES_FILE", ""),
	}

	if raw := env("OPERATOR_CHAT_ID", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("[config] OPERATOR_CHAT_ID=%q is not a number, operator notifications disabled", raw)
		} else {
			c.OperatorChatID = id
		}
	}

	var errs []error

	c.OperatorQueueSize = defaultQueueSize
	if raw := env("OPERATOR_QUEUE_SIZE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("OPERATOR_QUEUE_SIZE must be a positive integer, got %q", raw))
		} else {
			c.OperatorQueueSize = n
		}
	}

	if raw := env("REDIS_DB", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", raw))
		} else {
			c.RedisDB = n
		}
	}

	flagSet := pflag.NewFlagSet("intickets-support", pflag.ContinueOnError)
	flagSet.StringVar(&c.Port, "port", c.Port, "HTTP listen port")
	flagSet.StringVar(&c.PhrasesFile, "phrases", c.PhrasesFile, "YAML file with phrase tables (hot-reloaded)")
	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}

	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.DeepSeekKey == "" {
		errs = append(errs, errors.New("DEEPSEEK_API_KEY is required"))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return c, nil
}
