package sql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-reminder-bot/internal/database"
	customerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
	"github.com/central-university-dev/go-reminder-bot/pkg/txs"
)

type ReminderRepository struct {
	db *database.PostgresDB
}

func NewReminderRepository(db *database.PostgresDB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Add(ctx context.Context, reminder *models.Reminder) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	now := time.Now()

	var id int64

	err := querier.QueryRow(ctx,
		"INSERT INTO reminders (chat_id, kind, fire_at, body, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		reminder.ChatID, string(reminder.Kind), reminder.FireAt.Unix(), reminder.Body, now, now).Scan(&id)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение напоминания", Cause: err}
	}

	reminder.ID = id

	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id int64) (*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	row := querier.QueryRow(ctx,
		"SELECT id, chat_id, kind, fire_at, body FROM reminders WHERE id = $1", id)

	reminder, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrReminderNotFound{ID: id}
		}

		return nil, &customerrors.ErrSQLScan{Entity: "напоминание", Cause: err}
	}

	return reminder, nil
}

func (r *ReminderRepository) ListByChat(ctx context.Context, chatID int64) ([]*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx,
		"SELECT id, chat_id, kind, fire_at, body FROM reminders WHERE chat_id = $1 ORDER BY fire_at", chatID)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение напоминаний чата", Cause: err}
	}
	defer rows.Close()

	return collectReminders(rows)
}

func (r *ReminderRepository) ListAll(ctx context.Context) ([]*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	rows, err := querier.Query(ctx,
		"SELECT id, chat_id, kind, fire_at, body FROM reminders ORDER BY fire_at")
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "получение всех напоминаний", Cause: err}
	}
	defer rows.Close()

	return collectReminders(rows)
}

// Delete идемпотентно: отсутствие строки не является ошибкой.
func (r *ReminderRepository) Delete(ctx context.Context, id int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	_, err := querier.Exec(ctx, "DELETE FROM reminders WHERE id = $1", id)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "удаление напоминания", Cause: err}
	}

	return nil
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

func collectReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	result := make([]*models.Reminder, 0)

	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "напоминание", Cause: err}
		}

		result = append(result, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "чтение напоминаний", Cause: err}
	}

	return result, nil
}
