package scheduler_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/repository/memory"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
	"github.com/central-university-dev/go-reminder-bot/internal/scheduler"
	"github.com/central-university-dev/go-reminder-bot/internal/scheduler/mocks"
)

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newScheduler(repo *memory.ReminderRepository, sender *mocks.MessageSender) *scheduler.Scheduler {
	return scheduler.NewScheduler(repo, sender, passthroughTx{}, time.UTC, testLogger())
}

func TestScheduler_OverdueSingleFiresAndDeletesRow(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	reminder := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(-time.Minute),
		Body:   "просроченное",
	}
	require.NoError(t, repo.Add(ctx, reminder))

	sender.On("SendMessage", mock.Anything, int64(100), "просроченное").Return(nil)

	s := newScheduler(repo, sender)
	require.NoError(t, s.Arm(reminder.ID, reminder.FireAt))

	time.Sleep(500 * time.Millisecond)

	sender.AssertExpectations(t)

	reminders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestScheduler_OverdueRecurringRollsForward(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	fireAt := time.Now().Add(-time.Minute)
	reminder := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindWeeklyCycle,
		FireAt: fireAt,
		Body:   "еженедельное",
	}
	require.NoError(t, repo.Add(ctx, reminder))

	sender.On("SendMessage", mock.Anything, int64(100), "еженедельное").Return(nil)

	s := newScheduler(repo, sender)
	require.NoError(t, s.Arm(reminder.ID, reminder.FireAt))

	time.Sleep(500 * time.Millisecond)

	sender.AssertExpectations(t)

	reminders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)

	successor := reminders[0]
	assert.NotEqual(t, reminder.ID, successor.ID)
	assert.Equal(t, models.KindWeeklyCycle, successor.Kind)
	assert.Equal(t, "еженедельное", successor.Body)
	assert.WithinDuration(t, fireAt.Add(7*24*time.Hour), successor.FireAt, time.Second)

	s.Stop()
}

func TestScheduler_CancelPreventsFire(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	reminder := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(400 * time.Millisecond),
		Body:   "отменённое",
	}
	require.NoError(t, repo.Add(ctx, reminder))

	s := newScheduler(repo, sender)
	s.Start()

	require.NoError(t, s.Arm(reminder.ID, reminder.FireAt))
	s.Cancel(reminder.ID)

	time.Sleep(time.Second)
	s.Stop()

	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_MissingRowIsNoOp(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)

	s := newScheduler(repo, sender)

	// Задание взведено, но строки в хранилище нет: холостой выстрел.
	require.NoError(t, s.Arm(777, time.Now().Add(-time.Minute)))

	time.Sleep(300 * time.Millisecond)

	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_RecoverArmsStoredReminders(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	overdue := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(-time.Hour),
		Body:   "пропущенное за время простоя",
	}
	future := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(time.Hour),
		Body:   "будущее",
	}
	require.NoError(t, repo.Add(ctx, overdue))
	require.NoError(t, repo.Add(ctx, future))

	sender.On("SendMessage", mock.Anything, int64(100), "пропущенное за время простоя").Return(nil)

	s := newScheduler(repo, sender)
	require.NoError(t, s.Recover(ctx))

	time.Sleep(500 * time.Millisecond)

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "SendMessage", 1)

	reminders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "будущее", reminders[0].Body)
}

func TestScheduler_StaleCancelKeepsArmedCount(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	future := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(time.Hour),
		Body:   "будущее",
	}
	overdue := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(-time.Minute),
		Body:   "сработавшее",
	}
	require.NoError(t, repo.Add(ctx, future))
	require.NoError(t, repo.Add(ctx, overdue))

	sender.On("SendMessage", mock.Anything, int64(100), "сработавшее").Return(nil)

	s := newScheduler(repo, sender)
	require.NoError(t, s.Arm(future.ID, future.FireAt))
	require.NoError(t, s.Arm(overdue.ID, overdue.FireAt))

	time.Sleep(500 * time.Millisecond)

	sender.AssertExpectations(t)
	assert.Equal(t, 1, s.ArmedCount())

	// Запоздалая отмена уже сработавшего напоминания не трогает чужой счёт.
	s.Cancel(overdue.ID)
	assert.Equal(t, 1, s.ArmedCount())

	s.Cancel(future.ID)
	assert.Equal(t, 0, s.ArmedCount())
}

func TestScheduler_RearmReplacesJob(t *testing.T) {
	repo := memory.NewReminderRepository()
	sender := new(mocks.MessageSender)
	ctx := context.Background()

	reminder := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(time.Hour),
		Body:   "перевооружаемое",
	}
	require.NoError(t, repo.Add(ctx, reminder))

	s := newScheduler(repo, sender)
	s.Start()

	require.NoError(t, s.Arm(reminder.ID, reminder.FireAt))
	// Повторное взведение того же напоминания не плодит второго задания.
	require.NoError(t, s.Arm(reminder.ID, reminder.FireAt))

	s.Stop()

	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}
