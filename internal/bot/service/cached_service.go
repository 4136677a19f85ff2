package service

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/cache"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

// CachedReminderRepository — кэширующий декоратор над хранилищем напоминаний.
// Списки по чату отдаются из Redis, любая мутация инвалидирует кэш чата.
// Ошибки кэша не фатальны: переходим к базовому хранилищу.
type CachedReminderRepository struct {
	repo   ReminderRepository
	cache  cache.ReminderCache
	logger *slog.Logger
}

func NewCachedReminderRepository(repo ReminderRepository, reminderCache cache.ReminderCache, logger *slog.Logger) *CachedReminderRepository {
	return &CachedReminderRepository{
		repo:   repo,
		cache:  reminderCache,
		logger: logger,
	}
}

func (r *CachedReminderRepository) Add(ctx context.Context, reminder *models.Reminder) error {
	if err := r.repo.Add(ctx, reminder); err != nil {
		return err
	}

	r.invalidate(ctx, reminder.ChatID)

	return nil
}

func (r *CachedReminderRepository) GetByID(ctx context.Context, id int64) (*models.Reminder, error) {
	return r.repo.GetByID(ctx, id)
}

func (r *CachedReminderRepository) ListByChat(ctx context.Context, chatID int64) ([]*models.Reminder, error) {
	cached, err := r.cache.GetReminders(ctx, chatID)
	if err == nil && cached != nil {
		return cached, nil
	}

	reminders, err := r.repo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetReminders(ctx, chatID, reminders); err != nil {
		r.logger.Error("Ошибка при кэшировании напоминаний",
			"error", err,
			"chatID", chatID,
		)
	}

	return reminders, nil
}

func (r *CachedReminderRepository) ListAll(ctx context.Context) ([]*models.Reminder, error) {
	return r.repo.ListAll(ctx)
}

func (r *CachedReminderRepository) Delete(ctx context.Context, id int64) error {
	reminder, err := r.repo.GetByID(ctx, id)
	if err != nil {
		// Строки уже нет, удалять и инвалидировать нечего.
		return r.repo.Delete(ctx, id)
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, reminder.ChatID)

	return nil
}

func (r *CachedReminderRepository) invalidate(ctx context.Context, chatID int64) {
	if err := r.cache.DeleteReminders(ctx, chatID); err != nil {
		r.logger.Error("Ошибка при инвалидации кэша напоминаний",
			"error", err,
			"chatID", chatID,
		)
	}
}
