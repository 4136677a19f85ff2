package memory

import (
	"context"
	"sort"
	"sync"

	customerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type ReminderRepository struct {
	reminders map[int64]*models.Reminder
	nextID    int64
	mu        sync.RWMutex
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{
		reminders: make(map[int64]*models.Reminder),
		nextID:    1,
	}
}

func (r *ReminderRepository) Add(_ context.Context, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder.ID = r.nextID
	r.nextID++

	stored := *reminder
	r.reminders[reminder.ID] = &stored

	return nil
}

func (r *ReminderRepository) GetByID(_ context.Context, id int64) (*models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, exists := r.reminders[id]
	if !exists {
		return nil, &customerrors.ErrReminderNotFound{ID: id}
	}

	result := *reminder

	return &result, nil
}

func (r *ReminderRepository) ListByChat(_ context.Context, chatID int64) ([]*models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Reminder, 0)

	for _, reminder := range r.reminders {
		if reminder.ChatID == chatID {
			copied := *reminder
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].FireAt.Before(result[j].FireAt)
	})

	return result, nil
}

func (r *ReminderRepository) ListAll(_ context.Context) ([]*models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Reminder, 0, len(r.reminders))

	for _, reminder := range r.reminders {
		copied := *reminder
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].FireAt.Before(result[j].FireAt)
	})

	return result, nil
}

// Delete идемпотентно: удаление отсутствующей записи не является ошибкой.
func (r *ReminderRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reminders, id)

	return nil
}
