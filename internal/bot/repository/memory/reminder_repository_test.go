package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/repository/memory"
	domainerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

func TestReminderRepository_AddAndGet(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	reminder := &models.Reminder{
		ChatID: 100,
		Kind:   models.KindSingleDate,
		FireAt: time.Now().Add(time.Hour),
		Body:   "созвон",
	}

	err := repo.Add(ctx, reminder)
	require.NoError(t, err)
	assert.NotZero(t, reminder.ID)

	got, err := repo.GetByID(ctx, reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, reminder.ChatID, got.ChatID)
	assert.Equal(t, reminder.Body, got.Body)
}

func TestReminderRepository_GetByID_NotFound(t *testing.T) {
	repo := memory.NewReminderRepository()

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, &domainerrors.ErrReminderNotFound{})
}

func TestReminderRepository_ListByChat_SortedByFireAt(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	now := time.Now()

	later := &models.Reminder{ChatID: 100, Kind: models.KindSingleDate, FireAt: now.Add(2 * time.Hour), Body: "позже"}
	sooner := &models.Reminder{ChatID: 100, Kind: models.KindSingleDate, FireAt: now.Add(time.Hour), Body: "раньше"}
	other := &models.Reminder{ChatID: 200, Kind: models.KindSingleDate, FireAt: now.Add(time.Hour), Body: "чужое"}

	require.NoError(t, repo.Add(ctx, later))
	require.NoError(t, repo.Add(ctx, sooner))
	require.NoError(t, repo.Add(ctx, other))

	reminders, err := repo.ListByChat(ctx, 100)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, "раньше", reminders[0].Body)
	assert.Equal(t, "позже", reminders[1].Body)
}

func TestReminderRepository_Delete_Idempotent(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	reminder := &models.Reminder{ChatID: 100, Kind: models.KindSingleDate, FireAt: time.Now().Add(time.Hour), Body: "x"}
	require.NoError(t, repo.Add(ctx, reminder))

	require.NoError(t, repo.Delete(ctx, reminder.ID))
	require.NoError(t, repo.Delete(ctx, reminder.ID))

	_, err := repo.GetByID(ctx, reminder.ID)
	assert.ErrorIs(t, err, &domainerrors.ErrReminderNotFound{})
}

func TestReminderRepository_ValueIsolation(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	reminder := &models.Reminder{ChatID: 100, Kind: models.KindSingleDate, FireAt: time.Now().Add(time.Hour), Body: "исходный"}
	require.NoError(t, repo.Add(ctx, reminder))

	got, err := repo.GetByID(ctx, reminder.ID)
	require.NoError(t, err)

	got.Body = "изменённый"

	again, err := repo.GetByID(ctx, reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, "исходный", again.Body)
}

func TestMentionRepository_UpsertReplacesDisplayName(t *testing.T) {
	repo := memory.NewMentionRepository()
	ctx := context.Background()

	first := &models.MentionTarget{ChatID: 100, Handle: "ivan", DisplayName: "Иван"}
	require.NoError(t, repo.Upsert(ctx, first))
	assert.Equal(t, "@ivan", first.Handle)

	second := &models.MentionTarget{ChatID: 100, Handle: "@ivan", DisplayName: "Иван Петров"}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	targets, err := repo.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "Иван Петров", targets[0].DisplayName)
}

func TestMentionRepository_ListSortedByID(t *testing.T) {
	repo := memory.NewMentionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.MentionTarget{ChatID: 100, Handle: "anna", DisplayName: "Анна"}))
	require.NoError(t, repo.Upsert(ctx, &models.MentionTarget{ChatID: 100, Handle: "boris", DisplayName: "Борис"}))
	require.NoError(t, repo.Upsert(ctx, &models.MentionTarget{ChatID: 999, Handle: "other", DisplayName: "Чужой"}))

	targets, err := repo.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "@anna", targets[0].Handle)
	assert.Equal(t, "@boris", targets[1].Handle)
}

func TestMentionRepository_Delete_Idempotent(t *testing.T) {
	repo := memory.NewMentionRepository()
	ctx := context.Background()

	target := &models.MentionTarget{ChatID: 100, Handle: "ivan", DisplayName: "Иван"}
	require.NoError(t, repo.Upsert(ctx, target))

	require.NoError(t, repo.Delete(ctx, target.ID))
	require.NoError(t, repo.Delete(ctx, target.ID))

	targets, err := repo.List(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestSessionRepository_Defaults(t *testing.T) {
	repo := memory.NewSessionRepository()
	ctx := context.Background()

	state, err := repo.GetState(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, state)

	draft, err := repo.GetDraft(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, draft.Weekdays)
	assert.Empty(t, draft.Text)
}

func TestSessionRepository_DraftIsolation(t *testing.T) {
	repo := memory.NewSessionRepository()
	ctx := context.Background()

	draft := &models.Draft{Weekdays: []int{0, 2}, Text: "стендап"}
	require.NoError(t, repo.SetDraft(ctx, 100, draft))

	draft.Weekdays[0] = 5

	stored, err := repo.GetDraft(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, stored.Weekdays)
}

func TestSessionRepository_ClearDraft(t *testing.T) {
	repo := memory.NewSessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.SetDraft(ctx, 100, &models.Draft{Text: "что-то"}))
	require.NoError(t, repo.SetState(ctx, 100, models.StateCycleText))

	require.NoError(t, repo.ClearDraft(ctx, 100))

	draft, err := repo.GetDraft(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, draft.Text)
}
