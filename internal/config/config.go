package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"salestrack.db"`

	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID   int64  `env:"ADMIN_CHAT_ID" envDefault:"0"` // чат, куда пересылаются уведомления
	BotDebug      bool   `env:"TELEGRAM_DEBUG" envDefault:"false"`

	Admin   AdminConfig
	Tracker TrackerConfig
	Targets TargetConfig
	Log     logger.LogConfig
}

// AdminConfig - администратор, создаваемый при первом запуске
type AdminConfig struct {
	Email       string `env:"ADMIN_EMAIL" envDefault:"admin@glowlogics.com"`
	Password    string `env:"ADMIN_PASSWORD" envDefault:"123456"`
	Name        string `env:"ADMIN_NAME" envDefault:"Admin User"`
	LegacyEmail string `env:"ADMIN_LEGACY_EMAIL" envDefault:"admin@company.com"`
}

type TrackerConfig struct {
	IdleThreshold     time.Duration `env:"IDLE_THRESHOLD" envDefault:"5m"`
	RecomputeInterval time.Duration `env:"RECOMPUTE_INTERVAL" envDefault:"30s"`
}

// TargetConfig - план по умолчанию для новых сотрудников
type TargetConfig struct {
	DefaultConversions int     `env:"DEFAULT_TARGET_CONVERSIONS" envDefault:"100"`
	DefaultRevenue     float64 `env:"DEFAULT_TARGET_REVENUE" envDefault:"100000"`
	NotificationLimit  int     `env:"NOTIFICATION_LIMIT" envDefault:"100"`
}

var instance *Config
var once sync.Once

// GetConfig возвращает конфигурацию приложения (читается один раз)
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load разбирает переменные окружения в Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.Tracker.IdleThreshold <= 0 || cfg.Tracker.RecomputeInterval <= 0 {
		return nil, fmt.Errorf("tracker intervals must be positive")
	}
	if cfg.Targets.NotificationLimit <= 0 {
		return nil, fmt.Errorf("NOTIFICATION_LIMIT must be positive")
	}

	return cfg, nil
}

// RequireTelegram проверяет настройки, без которых бот не запустится
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("could not get bot token")
	}
	return nil
}
