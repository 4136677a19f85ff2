package orm

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-reminder-bot/internal/database"
	customerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
	"github.com/central-university-dev/go-reminder-bot/pkg/txs"
)

type ReminderRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewReminderRepository(db *database.PostgresDB) *ReminderRepository {
	return &ReminderRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReminderRepository) Add(ctx context.Context, reminder *models.Reminder) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()
	insertQuery := r.sq.Insert("reminders").
		Columns("chat_id", "kind", "fire_at", "body", "created_at", "updated_at").
		Values(reminder.ChatID, string(reminder.Kind), reminder.FireAt.Unix(), reminder.Body, now, now).
		Suffix("RETURNING id")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение напоминания", Cause: err}
	}

	var id int64

	if err := querier.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение напоминания", Cause: err}
	}

	reminder.ID = id

	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id int64) (*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("id", "chat_id", "kind", "fire_at", "body").
		From("reminders").
		Where(sq.Eq{"id": id})

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "получение напоминания", Cause: err}
	}

	reminder, err := scanReminder(querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrReminderNotFound{ID: id}
		}

		return nil, &customerrors.ErrSQLScan{Entity: "напоминание", Cause: err}
	}

	return reminder, nil
}

func (r *ReminderRepository) ListByChat(ctx context.Context, chatID int64) ([]*models.Reminder, error) {
	selectQuery := r.sq.Select("id", "chat_id", "kind", "fire_at", "body").
		From("reminders").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("fire_at")

	return r.queryReminders(ctx, selectQuery, "получение напоминаний чата")
}

func (r *ReminderRepository) ListAll(ctx context.Context) ([]*models.Reminder, error) {
	selectQuery := r.sq.Select("id", "chat_id", "kind", "fire_at", "body").
		From("reminders").
		OrderBy("fire_at")

	return r.queryReminders(ctx, selectQuery, "получение всех напоминаний")
}

// Delete идемпотентно: отсутствие строки не является ошибкой.
func (r *ReminderRepository) Delete(ctx context.Context, id int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	deleteQuery := r.sq.Delete("reminders").
		Where(sq.Eq{"id": id})

	query, args, err := deleteQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "удаление напоминания", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "удаление напоминания", Cause: err}
	}

	return nil
}

func (r *ReminderRepository) queryReminders(ctx context.Context, selectQuery sq.SelectBuilder, operation string) ([]*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}
	defer rows.Close()

	result := make([]*models.Reminder, 0)

	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "напоминание", Cause: err}
		}

		result = append(result, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	return result, nil
}

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	var (
		reminder models.Reminder
		kind     string
		fireAt   int64
	)

	if err := row.Scan(&reminder.ID, &reminder.ChatID, &kind, &fireAt, &reminder.Body); err != nil {
		return nil, err
	}

	reminder.Kind = models.ReminderKind(kind)
	reminder.FireAt = time.Unix(fireAt, 0)

	return &reminder, nil
}
