package models

import (
	"time"
)

type ReminderKind string

const (
	KindSingleDate  ReminderKind = "single-date"
	KindWeeklyCycle ReminderKind = "weekly-cycle"
	KindAPKWeekly   ReminderKind = "apk-weekly"
)

func (k ReminderKind) Valid() bool {
	switch k {
	case KindSingleDate, KindWeeklyCycle, KindAPKWeekly:
		return true
	default:
		return false
	}
}

// Recurring сообщает, перевооружается ли напоминание после срабатывания.
func (k ReminderKind) Recurring() bool {
	return k == KindWeeklyCycle || k == KindAPKWeekly
}

func (k ReminderKind) Label() string {
	switch k {
	case KindSingleDate:
		return "разовое"
	case KindWeeklyCycle:
		return "еженедельное"
	case KindAPKWeekly:
		return "APK-релиз"
	default:
		return string(k)
	}
}

// WeekdayNames — подписи дней недели, индекс 0 соответствует понедельнику.
var WeekdayNames = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

type Reminder struct {
	ID     int64
	ChatID int64
	Kind   ReminderKind
	FireAt time.Time
	Body   string
}

type MentionTarget struct {
	ID          int64
	ChatID      int64
	Handle      string
	DisplayName string
}

// ReminderRequest — заявка на создание напоминания, поступающая из Kafka.
type ReminderRequest struct {
	ChatID  int64  `json:"chatId"`
	Kind    string `json:"kind"`
	FireAt  int64  `json:"fireAt,omitempty"`
	Weekday *int   `json:"weekday,omitempty"`
	Time    string `json:"time,omitempty"`
	Text    string `json:"text"`
}
