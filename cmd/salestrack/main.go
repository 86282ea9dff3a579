package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/cli"
	"salestrack-bot/internal/config"
	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/service"
	"salestrack-bot/internal/store"
	"salestrack-bot/internal/tracker"
)

func main() {
	cfg := config.GetConfig()

	// вывод команд идет в stdout, логи туда не смешиваем
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	if err := logger.Init(&cfg.Log); err != nil {
		logrus.Fatal("Failed to initialize logger:", err)
	}
	log := logger.GetLogger("cli")

	st, err := store.OpenStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	repos := repository.New(st, cfg.Targets.NotificationLimit)
	services := service.New(repos, st, service.TargetDefaults{
		Conversions: cfg.Targets.DefaultConversions,
		Revenue:     cfg.Targets.DefaultRevenue,
	})
	if err := services.Employees.InitializeAdmin(repository.AdminSeed{
		Name:        cfg.Admin.Name,
		Email:       cfg.Admin.Email,
		Password:    cfg.Admin.Password,
		LegacyEmail: cfg.Admin.LegacyEmail,
	}); err != nil {
		log.Warnf("Failed to initialize admin: %v", err)
	}

	root := cli.NewRootCommand(&cli.App{
		Repos:    repos,
		Services: services,
		Clock:    tracker.SystemClock(),
		Tracker: tracker.Config{
			IdleThreshold:     cfg.Tracker.IdleThreshold,
			RecomputeInterval: cfg.Tracker.RecomputeInterval,
		},
	})

	err = root.Execute()
	if closeErr := st.Close(); closeErr != nil {
		log.WithError(closeErr).Warn("Error closing database")
	}
	if err != nil {
		os.Exit(1)
	}
}
