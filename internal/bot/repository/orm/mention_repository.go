package orm

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/central-university-dev/go-reminder-bot/internal/database"
	customerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
	"github.com/central-university-dev/go-reminder-bot/pkg/txs"
)

type MentionRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewMentionRepository(db *database.PostgresDB) *MentionRepository {
	return &MentionRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MentionRepository) Upsert(ctx context.Context, target *models.MentionTarget) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if !strings.HasPrefix(target.Handle, "@") {
		target.Handle = "@" + target.Handle
	}

	insertQuery := r.sq.Insert("mention_targets").
		Columns("chat_id", "handle", "display_name").
		Values(target.ChatID, target.Handle, target.DisplayName).
		Suffix("ON CONFLICT (chat_id, handle) DO UPDATE SET display_name = EXCLUDED.display_name RETURNING id")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение участника", Cause: err}
	}

	var id int64

	if err := querier.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение участника", Cause: err}
	}

	target.ID = id

	return nil
}

func (r *MentionRepository) List(ctx context.Context, chatID int64) ([]*models.MentionTarget, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("id", "chat_id", "handle", "display_name").
		From("mention_targets").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("id")

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение участников", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение участников", Cause: err}
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
		return nil, &customerrors.ErrSQLExecution{Operation: "получение участников", Cause: err}
	}

	return result, nil
}

// Delete идемпотентно: отсутствие строки не является ошибкой.
func (r *MentionRepository) Delete(ctx context.Context, id int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	deleteQuery := r.sq.Delete("mention_targets").
		Where(sq.Eq{"id": id})

	query, args, err := deleteQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "удаление участника", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "удаление участника", Cause: err}
	}

	return nil
}
