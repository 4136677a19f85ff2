package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type fakeHandler struct {
	mu       sync.Mutex
	requests []*models.ReminderRequest
	err      error
}

func (h *fakeHandler) CreateFromRequest(_ context.Context, request *models.ReminderRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}

	h.requests = append(h.requests, request)

	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages map[int64][]string
}

func (n *fakeNotifier) SendMessage(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.messages == nil {
		n.messages = make(map[int64][]string)
	}

	n.messages[chatID] = append(n.messages[chatID], text)

	return nil
}

func newTestConsumer(handler RequestHandler, notifier ChatNotifier) *Consumer {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return &Consumer{
		// Недостижимый брокер: запись в DLQ быстро падает, тесту она не нужна.
		dlqWriter: &segkafka.Writer{
			Addr:  segkafka.TCP("127.0.0.1:1"),
			Topic: "reminder-requests-dlq",
		},
		handler:      handler,
		notifier:     notifier,
		logger:       logger,
		requestTopic: "reminder-requests",
		dlqTopic:     "reminder-requests-dlq",
	}
}

func TestConsumer_ProcessMessage_Valid(t *testing.T) {
	handler := &fakeHandler{}
	notifier := &fakeNotifier{}
	consumer := newTestConsumer(handler, notifier)

	msg := &segkafka.Message{
		Value: []byte(`{"chatId":100,"kind":"weekly-cycle","weekday":1,"time":"0930","text":"стендап"}`),
	}

	err := consumer.processMessage(context.Background(), msg)
	require.NoError(t, err)

	require.Len(t, handler.requests, 1)
	request := handler.requests[0]
	assert.Equal(t, int64(100), request.ChatID)
	assert.Equal(t, "weekly-cycle", request.Kind)
	require.NotNil(t, request.Weekday)
	assert.Equal(t, 1, *request.Weekday)
	assert.Equal(t, "0930", request.Time)
	assert.Equal(t, "стендап", request.Text)

	// Чат получает подтверждение о создании.
	require.Len(t, notifier.messages[100], 1)
	assert.Contains(t, notifier.messages[100][0], "Создано")
}

func TestConsumer_ProcessMessage_MalformedJSON(t *testing.T) {
	handler := &fakeHandler{}
	consumer := newTestConsumer(handler, nil)

	msg := &segkafka.Message{Value: []byte(`{не json`)}

	err := consumer.processMessage(context.Background(), msg)
	assert.Error(t, err)
	assert.Empty(t, handler.requests)
}

func TestConsumer_ProcessMessage_RejectedRequest(t *testing.T) {
	handler := &fakeHandler{err: &domainerrors.ErrFireAtInPast{FireAt: 1}}
	consumer := newTestConsumer(handler, nil)

	msg := &segkafka.Message{
		Value: []byte(`{"chatId":100,"kind":"single-date","fireAt":1,"text":"поздно"}`),
	}

	err := consumer.processMessage(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "отклонена")
}

func TestConsumer_ProcessMessage_InfrastructureError(t *testing.T) {
	handler := &fakeHandler{err: fmt.Errorf("база данных недоступна")}
	consumer := newTestConsumer(handler, nil)

	msg := &segkafka.Message{
		Value: []byte(`{"chatId":100,"kind":"single-date","fireAt":9999999999,"text":"x"}`),
	}

	err := consumer.processMessage(context.Background(), msg)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "отклонена")
}

func TestIsRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "неизвестный тип", err: &domainerrors.ErrUnknownReminderKind{Kind: "monthly"}, want: true},
		{name: "нет обязательного поля", err: &domainerrors.ErrMissingRequiredField{FieldName: "text"}, want: true},
		{name: "момент в прошлом", err: &domainerrors.ErrFireAtInPast{FireAt: 1}, want: true},
		{name: "некорректный аргумент", err: &domainerrors.ErrInvalidArgument{Message: "time"}, want: true},
		{name: "инфраструктурный сбой", err: fmt.Errorf("timeout"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRejection(tt.err))
		})
	}
}
