package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type ReminderCache interface {
	GetReminders(ctx context.Context, chatID int64) ([]*models.Reminder, error)
	SetReminders(ctx context.Context, chatID int64, reminders []*models.Reminder) error
	DeleteReminders(ctx context.Context, chatID int64) error
}

type RedisReminderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisReminderCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisReminderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisReminderCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisReminderCache) GetReminders(ctx context.Context, chatID int64) ([]*models.Reminder, error) {
	key := reminderKey(chatID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Кэш не найден",
				"chatID", chatID,
			)

			return nil, nil
		}

		c.logger.Error("Ошибка при получении данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	var reminders []*models.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		c.logger.Error("Ошибка при десериализации данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	c.logger.Debug("Напоминания получены из кэша",
		"chatID", chatID,
		"count", len(reminders),
	)

	return reminders, nil
}

func (c *RedisReminderCache) SetReminders(ctx context.Context, chatID int64, reminders []*models.Reminder) error {
	key := reminderKey(chatID)

	data, err := json.Marshal(reminders)
	if err != nil {
		c.logger.Error("Ошибка при сериализации данных для Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Ошибка при сохранении данных в Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	return nil
}

func (c *RedisReminderCache) DeleteReminders(ctx context.Context, chatID int64) error {
	if err := c.client.Del(ctx, reminderKey(chatID)).Err(); err != nil {
		c.logger.Error("Ошибка при удалении данных из Redis",
			"error", err,
			"chatID", chatID,
		)

		return fmt.Errorf("ошибка при удалении данных из Redis: %w", err)
	}

	return nil
}

func (c *RedisReminderCache) Close() error {
	return c.client.Close()
}

func reminderKey(chatID int64) string {
	return fmt.Sprintf("reminders:%d", chatID)
}
