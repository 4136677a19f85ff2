package repository

import (
	"log/slog"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/repository/orm"
	sqlrepo "github.com/central-university-dev/go-reminder-bot/internal/bot/repository/sql"
	"github.com/central-university-dev/go-reminder-bot/internal/bot/service"
	"github.com/central-university-dev/go-reminder-bot/internal/config"
	"github.com/central-university-dev/go-reminder-bot/internal/database"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
)

type Factory struct {
	db     *database.PostgresDB
	config *config.Config
	logger *slog.Logger
}

func NewFactory(db *database.PostgresDB, config *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (f *Factory) CreateReminderRepository() (service.ReminderRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория напоминаний")
		return orm.NewReminderRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория напоминаний")
		return sqlrepo.NewReminderRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}

func (f *Factory) CreateMentionRepository() (service.MentionRepository, error) {
	switch f.config.DatabaseAccessType {
	case config.SquirrelAccess:
		f.logger.Info("Создание ORM (Squirrel) репозитория участников")
		return orm.NewMentionRepository(f.db), nil
	case config.SQLAccess:
		f.logger.Info("Создание SQL репозитория участников")
		return sqlrepo.NewMentionRepository(f.db), nil
	default:
		return nil, &errors.ErrUnknownDBAccessType{AccessType: string(f.config.DatabaseAccessType)}
	}
}
