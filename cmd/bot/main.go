package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/config"
	"salestrack-bot/internal/handler"
	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/service"
	"salestrack-bot/internal/store"
	"salestrack-bot/internal/tracker"
	"salestrack-bot/pkg/telegram"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	if err := logger.Init(&cfg.Log); err != nil {
		logrus.Fatal("Failed to initialize logger:", err)
	}
	log := logger.GetLogger("bot")
	log.Info("Config initialized...")

	if err := cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}

	st, err := store.OpenStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	repos := repository.New(st, cfg.Targets.NotificationLimit)
	services := service.New(repos, st, service.TargetDefaults{
		Conversions: cfg.Targets.DefaultConversions,
		Revenue:     cfg.Targets.DefaultRevenue,
	})

	// Инициализируем администратора из конфига
	if err := services.Employees.InitializeAdmin(repository.AdminSeed{
		Name:        cfg.Admin.Name,
		Email:       cfg.Admin.Email,
		Password:    cfg.Admin.Password,
		LegacyEmail: cfg.Admin.LegacyEmail,
	}); err != nil {
		log.Warnf("Failed to initialize admin: %v", err)
	}

	trackers := tracker.NewManager(repos.Activity, tracker.SystemClock(), tracker.Config{
		IdleThreshold:     cfg.Tracker.IdleThreshold,
		RecomputeInterval: cfg.Tracker.RecomputeInterval,
	})

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken, cfg.BotDebug)
	if err != nil {
		log.Fatal("Failed to create Telegram client:", err)
	}
	log.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(client.Bot, services, trackers, cfg)
	unsubscribe := botHandler.WatchNotifications(st)

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем обработку сообщений
	go botHandler.HandleUpdates(updates)

	log.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	client.Stop()

	unsubscribe()
	trackers.CloseAll()

	if err := st.Close(); err != nil {
		log.Infof("Error closing database: %v", err)
	}

	log.Info("Bot stopped gracefully")
}
