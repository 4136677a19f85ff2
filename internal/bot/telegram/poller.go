package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/go-reminder-bot/internal/bot/domain"
	"github.com/central-university-dev/go-reminder-bot/internal/common/metrics"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type BotService interface {
	ProcessCommand(ctx context.Context, command *models.Command) (*models.Reply, error)

	ProcessMessage(ctx context.Context, chatID int64, text string) (*models.Reply, error)

	ProcessCallback(ctx context.Context, chatID int64, data string) (*models.Reply, error)
}

type Poller struct {
	telegramClient domain.TelegramClientAPI
	botService     BotService
	rateLimiter    *ChatRateLimiter
	logger         *slog.Logger
	updatesChan    tgbotapi.UpdatesChannel
	stopChan       chan struct{}
}

func NewPoller(telegramClient domain.TelegramClientAPI, botService BotService, rateLimiter *ChatRateLimiter, logger *slog.Logger) *Poller {
	return &Poller{
		telegramClient: telegramClient,
		botService:     botService,
		rateLimiter:    rateLimiter,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.logger.Info("Запуск Telegram поллера")

	bot := p.telegramClient.GetBot()
	if bot == nil {
		p.logger.Error("Не удалось получить доступ к API бота")
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	p.updatesChan = bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-p.stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case update := <-p.updatesChan:
				p.processUpdate(&update)
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.logger.Info("Остановка Telegram поллера")
	close(p.stopChan)
}

func (p *Poller) processUpdate(update *tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		p.processCallback(update.CallbackQuery)
	case update.Message != nil:
		p.processMessage(update.Message)
	}
}

func (p *Poller) processMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !p.rateLimiter.Allow(chatID) {
		p.logger.Warn("Превышен лимит сообщений, обновление пропущено",
			"chat_id", chatID,
		)

		return
	}

	text := message.Text

	p.logger.Info("Получено сообщение",
		"chat_id", chatID,
		"text", text,
	)

	messageType := "message"
	if message.IsCommand() {
		messageType = "command"
	}

	metrics.RecordUserMessage(strconv.FormatInt(chatID, 10), messageType)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		reply *models.Reply
		err   error
	)

	if message.IsCommand() {
		command := &models.Command{
			ChatID:   chatID,
			UserID:   message.From.ID,
			Text:     text,
			Username: message.From.UserName,
			Type:     getCommandType("/" + message.Command()),
		}

		reply, err = p.botService.ProcessCommand(ctx, command)
	} else {
		reply, err = p.botService.ProcessMessage(ctx, chatID, text)
	}

	p.sendReply(chatID, reply, err)
}

func (p *Poller) processCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}

	chatID := callback.Message.Chat.ID

	if !p.rateLimiter.Allow(chatID) {
		p.logger.Warn("Превышен лимит сообщений, нажатие кнопки пропущено",
			"chat_id", chatID,
		)

		return
	}

	p.logger.Info("Получено нажатие кнопки",
		"chat_id", chatID,
		"data", callback.Data,
	)

	metrics.RecordUserMessage(strconv.FormatInt(chatID, 10), "callback")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.telegramClient.AnswerCallback(ctx, callback.ID); err != nil {
		p.logger.Error("Ошибка при подтверждении нажатия кнопки",
			"error", err,
			"chat_id", chatID,
		)
	}

	reply, err := p.botService.ProcessCallback(ctx, chatID, callback.Data)

	p.sendReply(chatID, reply, err)
}

func (p *Poller) sendReply(chatID int64, reply *models.Reply, err error) {
	if err != nil {
		p.logger.Error("Ошибка при обработке обновления",
			"error", err,
			"chat_id", chatID,
		)

		if reply == nil {
			reply = models.NewReply("Произошла ошибка при обработке вашего сообщения. Пожалуйста, попробуйте позже.")
		}
	}

	if reply == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sendErr := p.telegramClient.SendReply(ctx, chatID, reply); sendErr != nil {
		p.logger.Error("Ошибка при отправке ответа",
			"error", sendErr,
			"chat_id", chatID,
		)
	}
}

func getCommandType(commandName string) models.CommandType {
	switch commandName {
	case "/start":
		return models.CommandStart
	case "/menu":
		return models.CommandMenu
	case "/help":
		return models.CommandHelp
	default:
		return models.CommandUnknown
	}
}
