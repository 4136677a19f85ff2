package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/central-university-dev/go-reminder-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

const recurringPeriod = 7 * 24 * time.Hour

type ReminderRepository interface {
	Add(ctx context.Context, reminder *models.Reminder) error

	GetByID(ctx context.Context, id int64) (*models.Reminder, error)

	ListAll(ctx context.Context) ([]*models.Reminder, error)

	Delete(ctx context.Context, id int64) error
}

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Scheduler держит по одному одноразовому заданию на каждое напоминание.
// Задание несёт только идентификатор: в момент срабатывания напоминание
// перечитывается из хранилища, и отсутствующая строка превращает выстрел
// в холостой. Это единственный механизм точно-однократной доставки.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reminders ReminderRepository
	sender    MessageSender
	txManager Transactor
	logger    *slog.Logger

	mu    sync.Mutex
	armed map[int64]struct{}
}

func NewScheduler(
	reminders ReminderRepository,
	sender MessageSender,
	txManager Transactor,
	loc *time.Location,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		reminders: reminders,
		sender:    sender,
		txManager: txManager,
		logger:    logger,
		armed:     make(map[int64]struct{}),
	}
}

// Arm взводит одноразовое задание на напоминание. Повторный вызов для того же
// идентификатора перевооружает задание заново. Уже просроченный момент
// срабатывает немедленно: так восстанавливаются напоминания, чьё время прошло,
// пока процесс был остановлен.
func (s *Scheduler) Arm(id int64, fireAt time.Time) error {
	_ = s.scheduler.RemoveByTag(jobTag(id))

	if !fireAt.After(time.Now()) {
		s.logger.Info("Время напоминания уже прошло, немедленное срабатывание",
			"reminder_id", id,
			"fire_at", fireAt,
		)

		s.markArmed(id)

		go s.fire(id)

		return nil
	}

	_, err := s.scheduler.Every(1).Day().StartAt(fireAt).LimitRunsTo(1).Tag(jobTag(id)).Do(func() {
		s.fire(id)
	})
	if err != nil {
		return fmt.Errorf("ошибка при взведении напоминания %d: %w", id, err)
	}

	s.markArmed(id)

	return nil
}

// Cancel снимает взведённое задание. Отсутствие задания не является ошибкой:
// gocron оставляет сработавшие одноразовые задания в списке, поэтому учёт
// взведённых ведётся по идентификаторам, а не по результату RemoveByTag.
func (s *Scheduler) Cancel(id int64) {
	_ = s.scheduler.RemoveByTag(jobTag(id))
	s.unmarkArmed(id)
}

// Recover перечитывает все напоминания из хранилища и взводит их заново.
// Вызывается при старте процесса до начала приёма обновлений.
func (s *Scheduler) Recover(ctx context.Context) error {
	reminders, err := s.reminders.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при восстановлении напоминаний: %w", err)
	}

	for _, reminder := range reminders {
		if err := s.Arm(reminder.ID, reminder.FireAt); err != nil {
			return err
		}
	}

	s.logger.Info("Напоминания восстановлены из хранилища",
		"count", len(reminders),
	)

	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Запуск планировщика напоминаний")
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика напоминаний")
	s.scheduler.Stop()
}

func (s *Scheduler) fire(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.unmarkArmed(id)

	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrReminderNotFound{}) {
			// Напоминание удалили после взведения; холостой выстрел.
			s.logger.Info("Напоминание отсутствует в хранилище, пропуск",
				"reminder_id", id,
			)

			return
		}

		s.logger.Error("Ошибка при чтении напоминания",
			"error", err,
			"reminder_id", id,
		)
		metrics.RecordReminderFired("unknown", "error")

		return
	}

	if err := s.sender.SendMessage(ctx, reminder.ChatID, reminder.Body); err != nil {
		s.logger.Error("Ошибка при отправке напоминания",
			"error", err,
			"reminder_id", id,
			"chat_id", reminder.ChatID,
		)
		metrics.RecordReminderFired(string(reminder.Kind), "error")

		return
	}

	metrics.RecordReminderFired(string(reminder.Kind), "ok")

	if reminder.Kind.Recurring() {
		s.rollForward(ctx, reminder)
		return
	}

	if err := s.reminders.Delete(ctx, reminder.ID); err != nil {
		s.logger.Error("Ошибка при удалении сработавшего напоминания",
			"error", err,
			"reminder_id", id,
		)
	}
}

// rollForward заменяет сработавшее еженедельное напоминание преемником на
// неделю позже. Замена атомарна: старая строка удаляется и новая вставляется
// в одной транзакции, преемник взводится только после фиксации.
func (s *Scheduler) rollForward(ctx context.Context, reminder *models.Reminder) {
	successor := &models.Reminder{
		ChatID: reminder.ChatID,
		Kind:   reminder.Kind,
		FireAt: reminder.FireAt.Add(recurringPeriod),
		Body:   reminder.Body,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.reminders.Delete(ctx, reminder.ID); err != nil {
			return err
		}

		return s.reminders.Add(ctx, successor)
	})
	if err != nil {
		s.logger.Error("Ошибка при перевооружении еженедельного напоминания",
			"error", err,
			"reminder_id", reminder.ID,
		)

		return
	}

	if err := s.Arm(successor.ID, successor.FireAt); err != nil {
		s.logger.Error("Ошибка при взведении преемника",
			"error", err,
			"reminder_id", successor.ID,
		)
	}
}

// ArmedCount возвращает число взведённых в данный момент заданий.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.armed)
}

func (s *Scheduler) markArmed(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.armed[id] = struct{}{}
	metrics.SetArmedJobs(len(s.armed))
}

func (s *Scheduler) unmarkArmed(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.armed, id)
	metrics.SetArmedJobs(len(s.armed))
}

func jobTag(id int64) string {
	return fmt.Sprintf("reminder-%d", id)
}
