package common

import (
	"time"
)

// TimeParser разбирает четырёхзначные токены даты и времени, которые
// пользователь вводит в диалоге: MMDD и HHMM.
type TimeParser struct{}

func NewTimeParser() *TimeParser {
	return &TimeParser{}
}

// ParseDate разбирает токен MMDD. Год не принимается: он подбирается позже
// калькулятором расписания. Проверка идёт по високосному опорному году,
// чтобы 29 февраля принималось всегда.
func (p *TimeParser) ParseDate(token string) (month, day int, ok bool) {
	if !isFourDigits(token) {
		return 0, 0, false
	}

	month = int(token[0]-'0')*10 + int(token[1]-'0')
	day = int(token[2]-'0')*10 + int(token[3]-'0')

	if month < 1 || month > 12 || day < 1 {
		return 0, 0, false
	}

	leapYear := 2000
	candidate := time.Date(leapYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	if int(candidate.Month()) != month || candidate.Day() != day {
		return 0, 0, false
	}

	return month, day, true
}

// ParseTime разбирает токен HHMM: час в [0,23], минута в [0,59].
func (p *TimeParser) ParseTime(token string) (hour, minute int, ok bool) {
	if !isFourDigits(token) {
		return 0, 0, false
	}

	hour = int(token[0]-'0')*10 + int(token[1]-'0')
	minute = int(token[2]-'0')*10 + int(token[3]-'0')

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}

func isFourDigits(token string) bool {
	if len(token) != 4 {
		return false
	}

	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}

	return true
}
