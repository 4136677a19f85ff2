package sql

import (
	"context"
	"strings"
	"time"

	"github.com/central-university-dev/go-reminder-bot/internal/database"
	customerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
	"github.com/central-university-dev/go-reminder-bot/pkg/txs"
)

type MentionRepository struct {
	db *database.PostgresDB
}

func NewMentionRepository(db *database.PostgresDB) *MentionRepository {
	return &MentionRepository{db: db}
}

// Upsert сохраняет участника; по паре (chat_id, handle) повторное добавление
// заменяет отображаемое имя.
func (r *MentionRepository) Upsert(ctx context.Context, target *models.MentionTarget) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if !strings.HasPrefix(target.Handle, "@") {
		target.Handle = "@" + target.Handle
	}

	now := time.Now()

	var id int64

	err := querier.QueryRow(ctx, `
		INSERT INTO mention_targets (chat_id, handle, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id, handle) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, target.ChatID, target.Handle, target.DisplayName, now, now).Scan(&id)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение участника", Cause: err}
	}

	target.ID = id

	return nil
}

func (r *MentionRepository) List(ctx context.Context, chatID int64) ([]*models.MentionTarget, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx,
		"SELECT id, chat_id, handle, display_name FROM mention_targets WHERE chat_id = $1 ORDER BY id", chatID)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение списка участников", Cause: err}
	}
	defer rows.Close()

	result := make([]*models.MentionTarget, 0)

	for rows.Next() {
		var target models.MentionTarget

		if err := rows.Scan(&target.ID, &target.ChatID, &target.Handle, &target.DisplayName); err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "участник", Cause: err}
		}

		result = append(result, &target)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение участников", Cause: err}
	}

	return result, nil
}

// Delete идемпотентно.
func (r *MentionRepository) Delete(ctx context.Context, id int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	_, err := querier.Exec(ctx, "DELETE FROM mention_targets WHERE id = $1", id)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "удаление участника", Cause: err}
	}

	return nil
}
