package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/central-university-dev/go-reminder-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type RequestHandler interface {
	CreateFromRequest(ctx context.Context, request *models.ReminderRequest) error
}

type ChatNotifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Consumer принимает заявки на напоминания из Kafka. Невалидные сообщения
// уходят в DLQ с причиной отказа в заголовках и не блокируют поток.
type Consumer struct {
	reader       *kafka.Reader
	dlqWriter    *kafka.Writer
	handler      RequestHandler
	notifier     ChatNotifier
	logger       *slog.Logger
	requestTopic string
	dlqTopic     string
}

func NewConsumer(
	brokers []string,
	groupID string,
	requestTopic string,
	dlqTopic string,
	handler RequestHandler,
	notifier ChatNotifier,
	logger *slog.Logger,
) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          requestTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: 1 * time.Second,
		Logger:         kafka.LoggerFunc(logger.Debug),
		ErrorLogger:    kafka.LoggerFunc(logger.Error),
	})

	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        dlqTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &Consumer{
		reader:       reader,
		dlqWriter:    dlqWriter,
		handler:      handler,
		notifier:     notifier,
		logger:       logger,
		requestTopic: requestTopic,
		dlqTopic:     dlqTopic,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Запуск потребления заявок из Kafka",
		"topic", c.requestTopic,
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Остановка потребления заявок из Kafka")
				return
			default:
				msg, err := c.reader.ReadMessage(ctx)
				if err != nil {
					c.logger.Error("Ошибка при чтении сообщения из Kafka",
						"error", err,
					)

					continue
				}

				c.logger.Info("Получена заявка из Kafka",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
				)

				if err := c.processMessage(ctx, &msg); err != nil {
					c.logger.Error("Ошибка при обработке заявки",
						"error", err,
					)
				}
			}
		}
	}()
}

func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) error {
	var request models.ReminderRequest

	if err := json.Unmarshal(msg.Value, &request); err != nil {
		metrics.RecordKafkaRequest("malformed")

		if sendErr := c.sendToDLQ(ctx, msg.Value, fmt.Sprintf("Ошибка десериализации: %s", err)); sendErr != nil {
			c.logger.Error("Ошибка при отправке сообщения в DLQ",
				"error", sendErr,
			)
		}

		return fmt.Errorf("ошибка при десериализации заявки: %w", err)
	}

	if err := c.handler.CreateFromRequest(ctx, &request); err != nil {
		if isRejection(err) {
			metrics.RecordKafkaRequest("rejected")

			if sendErr := c.sendToDLQ(ctx, msg.Value, err.Error()); sendErr != nil {
				c.logger.Error("Ошибка при отправке сообщения в DLQ",
					"error", sendErr,
				)
			}

			return fmt.Errorf("заявка отклонена: %w", err)
		}

		metrics.RecordKafkaRequest("error")

		return fmt.Errorf("ошибка при создании напоминания по заявке: %w", err)
	}

	metrics.RecordKafkaRequest("ok")
	c.logger.Info("Заявка успешно обработана",
		"chat_id", request.ChatID,
		"kind", request.Kind,
	)

	if c.notifier != nil {
		if err := c.notifier.SendMessage(ctx, request.ChatID, "Создано напоминание по внешней заявке."); err != nil {
			// Напоминание уже сохранено и взведено, заявку не откатываем.
			c.logger.Error("Ошибка при подтверждении заявки в чат",
				"error", err,
				"chat_id", request.ChatID,
			)
		}
	}

	return nil
}

// isRejection отличает невалидную заявку (в DLQ, не повторять) от
// инфраструктурного сбоя (логируем, сообщение не подтверждаем как обработанное).
func isRejection(err error) bool {
	var invalidArg *domainerrors.ErrInvalidArgument

	return errors.Is(err, &domainerrors.ErrUnknownReminderKind{}) ||
		errors.Is(err, &domainerrors.ErrMissingRequiredField{}) ||
		errors.Is(err, &domainerrors.ErrFireAtInPast{}) ||
		errors.As(err, &invalidArg)
}

func (c *Consumer) sendToDLQ(ctx context.Context, message []byte, errMsg string) error {
	c.logger.Info("Отправка заявки в DLQ",
		"error", errMsg,
		"topic", c.dlqTopic,
	)

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte("error"),
		Value: message,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(errMsg)},
			{Key: "timestamp", Value: []byte(time.Now().Format(time.RFC3339))},
		},
		Time: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("ошибка при отправке сообщения в DLQ: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return err
	}

	return c.dlqWriter.Close()
}
