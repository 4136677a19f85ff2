package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type MentionRepository struct {
	targets map[int64]*models.MentionTarget
	nextID  int64
	mu      sync.RWMutex
}

func NewMentionRepository() *MentionRepository {
	return &MentionRepository{
		targets: make(map[int64]*models.MentionTarget),
		nextID:  1,
	}
}

// Upsert сохраняет участника; пара (chat_id, handle) уникальна, повторное
// добавление заменяет отображаемое имя. Сигил @ дописывается при отсутствии.
func (r *MentionRepository) Upsert(_ context.Context, target *models.MentionTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !strings.HasPrefix(target.Handle, "@") {
		target.Handle = "@" + target.Handle
	}

	for _, existing := range r.targets {
		if existing.ChatID == target.ChatID && existing.Handle == target.Handle {
			existing.DisplayName = target.DisplayName
			target.ID = existing.ID

			return nil
		}
	}

	target.ID = r.nextID
	r.nextID++

	stored := *target
	r.targets[target.ID] = &stored

	return nil
}

func (r *MentionRepository) List(_ context.Context, chatID int64) ([]*models.MentionTarget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.MentionTarget, 0)

	for _, target := range r.targets {
		if target.ChatID == chatID {
			copied := *target
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Delete идемпотентно.
func (r *MentionRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.targets, id)

	return nil
}
