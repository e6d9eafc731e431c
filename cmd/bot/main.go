package main

import (
	"os"
	"os/signal"
	"syscall"

	"ems-bot/internal/config"
	"ems-bot/internal/handler"
	"ems-bot/internal/repository"
	"ems-bot/internal/service"
	"ems-bot/pkg/emsapi"
	"ems-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	// Инициализируем SQLite базу для хранения токенов доступа
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	credentialRepo, err := repository.NewCredentialRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create credential repository")
	}

	// Клиент REST API системы учета сотрудников
	apiClient := emsapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	// Создаем сервисы
	sessionService := service.NewSessionService(apiClient, credentialRepo)
	workLogService := service.NewWorkLogService(apiClient)
	dashboardService := service.NewDashboardService(apiClient)
	payrollService := service.NewPayrollService(apiClient)
	userService := service.NewUserService(apiClient)

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	// Создаем обработчик с конфигом
	botHandler := handler.NewHandler(
		client,
		sessionService,
		workLogService,
		dashboardService,
		payrollService,
		userService,
		cfg,
	)

	// Настраиваем канал обновлений
	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем обработку сообщений
	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
