package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/cache"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/clients"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/clients/kafka"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/domain"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/repository"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/repository/memory"
	botservice "github.com/central-university-dev/go-reminder-bot/internal/bot/service"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/telegram"
	commonservice "github.com/central-university-dev/go-reminder-bot/internal/common"
	"github.com/central-university-dev/go-reminder-bot/internal/common/httputil"
	"github.com/central-university-dev/go-reminder-bot/internal/common/metrics"
	"github.com/central-university-dev/go-reminder-bot/internal/config"
	"github.com/central-university-dev/go-reminder-bot/internal/database"
	"github.com/central-university-dev/go-reminder-bot/internal/scheduler"
	"github.com/central-university-dev/go-reminder-bot/pkg"
	"github.com/central-university-dev/go-reminder-bot/pkg/txs"
)

func setupTelegramCommands(telegramClient domain.TelegramClientAPI, appLogger *slog.Logger) {
	botCommands := []domain.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "menu", Description: "Открыть главное меню"},
		{Command: "help", Description: "Справка по командам"},
	}

	ctx := context.Background()
	if err := telegramClient.SetMyCommands(ctx, botCommands); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота успешно зарегистрированы")
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("ошибка загрузки часового пояса %q: %w", cfg.Timezone, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, appLogger)

	reminderRepo, err := repoFactory.CreateReminderRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория напоминаний: %w", err)
	}

	mentionRepo, err := repoFactory.CreateMentionRepository()
	if err != nil {
		return fmt.Errorf("ошибка создания репозитория участников: %w", err)
	}

	var redisCache *cache.RedisReminderCache

	if cfg.RedisURL != "" {
		cacheTTL := cfg.RedisCacheTTL
		if cacheTTL <= 0 {
			cacheTTL = 30 * time.Minute
		}

		redisCache, err = cache.NewRedisReminderCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cacheTTL, appLogger)
		if err != nil {
			appLogger.Error("Ошибка при подключении к Redis, кэш отключён",
				"error", err,
			)
		} else {
			reminderRepo = botservice.NewCachedReminderRepository(reminderRepo, redisCache, appLogger)
			appLogger.Info("Кэш Redis успешно инициализирован")
		}
	}

	httpClient := httputil.CreateResilientHTTPClient(cfg, appLogger, "telegram")

	telegramClient := clients.NewTelegramClient(cfg.TelegramBotToken, httpClient.GetClient(), appLogger)
	setupTelegramCommands(telegramClient, appLogger)

	reminderScheduler := scheduler.NewScheduler(reminderRepo, telegramClient, txManager, loc, appLogger)

	// Сначала восстановление из хранилища, затем приём обновлений: ни одно
	// напоминание не должно потеряться между стартом и первым сообщением.
	if err := reminderScheduler.Recover(ctx); err != nil {
		return fmt.Errorf("ошибка восстановления напоминаний: %w", err)
	}

	reminderScheduler.Start()

	sessionRepo := memory.NewSessionRepository()

	botService := botservice.NewBotService(
		sessionRepo,
		reminderRepo,
		mentionRepo,
		reminderScheduler,
		txManager,
		commonservice.NewTimeParser(),
		commonservice.NewScheduleCalculator(loc),
		appLogger,
	)

	var kafkaConsumer *kafka.Consumer

	if strings.EqualFold(cfg.MessageTransport, "KAFKA") {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		kafkaConsumer = kafka.NewConsumer(
			brokers,
			"reminder-bot-group",
			cfg.TopicReminderRequests,
			cfg.TopicDeadLetterQueue,
			botService,
			telegramClient,
			appLogger,
		)

		kafkaConsumer.Start(ctx)
		appLogger.Info("Kafka консьюмер успешно запущен")
	}

	metricsServer := metrics.NewMetricsServer(cfg.BotMetricsPort, appLogger)

	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			appLogger.Error("Ошибка сервера метрик",
				"error", err,
			)
		}
	}()

	rateLimiter := telegram.NewChatRateLimiter(ctx, cfg.RateLimitRequests, cfg.RateLimitWindow)

	poller := telegram.NewPoller(telegramClient, botService, rateLimiter, appLogger)
	poller.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	appLogger.Info("Получен сигнал завершения",
		"signal", sig.String(),
	)

	poller.Stop()
	reminderScheduler.Stop()
	cancel()

	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии Kafka консьюмера",
				"error", err,
			)
		}
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии соединения с Redis",
				"error", err,
			)
		}
	}

	appLogger.Info("Сервис успешно остановлен")

	return nil
}
