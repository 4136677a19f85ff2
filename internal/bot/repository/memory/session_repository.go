package memory

import (
	"context"
	"sync"

	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

// SessionRepository хранит состояние диалога и черновик напоминания по чатам.
// Хранилище намеренно только в памяти: незавершённый диалог не переживает
// перезапуск процесса.
type SessionRepository struct {
	states map[int64]models.ChatState
	drafts map[int64]*models.Draft
	mu     sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		states: make(map[int64]models.ChatState),
		drafts: make(map[int64]*models.Draft),
	}
}

func (r *SessionRepository) GetState(_ context.Context, chatID int64) (models.ChatState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[chatID]
	if !exists {
		return models.StateMenu, nil
	}

	return state, nil
}

func (r *SessionRepository) SetState(_ context.Context, chatID int64, state models.ChatState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[chatID] = state

	return nil
}

func (r *SessionRepository) GetDraft(_ context.Context, chatID int64) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, exists := r.drafts[chatID]
	if !exists {
		return &models.Draft{}, nil
	}

	copied := *draft
	copied.Weekdays = append([]int(nil), draft.Weekdays...)
	copied.MentionIDs = append([]int64(nil), draft.MentionIDs...)

	return &copied, nil
}

func (r *SessionRepository) SetDraft(_ context.Context, chatID int64, draft *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *draft
	copied.Weekdays = append([]int(nil), draft.Weekdays...)
	copied.MentionIDs = append([]int64(nil), draft.MentionIDs...)

	r.drafts[chatID] = &copied

	return nil
}

func (r *SessionRepository) ClearDraft(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, chatID)

	return nil
}
