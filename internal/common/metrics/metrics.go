package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "reminder_bot"

	BotSubsystem       = "bot"
	SchedulerSubsystem = "scheduler"
)

// Бот метрики.
var (
	UserMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "user_messages_total",
			Help:      "Total number of user messages processed",
		},
		[]string{"chat_id", "message_type"},
	)

	RemindersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "reminders_created_total",
			Help:      "Total number of reminders created",
		},
		[]string{"kind", "source"},
	)

	KafkaRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "kafka_requests_total",
			Help:      "Total number of reminder requests consumed from Kafka",
		},
		[]string{"status"},
	)
)

// Метрики планировщика.
var (
	RemindersFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SchedulerSubsystem,
			Name:      "reminders_fired_total",
			Help:      "Total number of reminders fired",
		},
		[]string{"kind", "status"},
	)

	ArmedJobsCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SchedulerSubsystem,
			Name:      "armed_jobs_count",
			Help:      "Number of currently armed reminder jobs",
		},
	)
)

func RecordUserMessage(chatID, messageType string) {
	UserMessagesTotal.WithLabelValues(chatID, messageType).Inc()
}

func RecordReminderCreated(kind, source string) {
	RemindersCreatedTotal.WithLabelValues(kind, source).Inc()
}

func RecordKafkaRequest(status string) {
	KafkaRequestsTotal.WithLabelValues(status).Inc()
}

func RecordReminderFired(kind, status string) {
	RemindersFiredTotal.WithLabelValues(kind, status).Inc()
}

func SetArmedJobs(count int) {
	ArmedJobsCount.Set(float64(count))
}
