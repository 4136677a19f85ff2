package common

import (
	"time"
)

// ScheduleCalculator вычисляет ближайший будущий момент срабатывания из
// неполного пользовательского ввода. Вся арифметика идёт в одном настроенном
// часовом поясе; особых обработок перехода на летнее время нет.
type ScheduleCalculator struct {
	loc *time.Location
}

func NewScheduleCalculator(loc *time.Location) *ScheduleCalculator {
	return &ScheduleCalculator{loc: loc}
}

func (c *ScheduleCalculator) Location() *time.Location {
	return c.loc
}

// NextWeekday возвращает ближайший момент с указанным днём недели
// (0 — понедельник, 6 — воскресенье) и временем суток. Совпадающий, но уже
// прошедший момент переносится ровно на неделю вперёд.
func (c *ScheduleCalculator) NextWeekday(weekday, hour, minute int, now time.Time) time.Time {
	now = now.In(c.loc)

	daysAhead := (weekday - mondayIndex(now.Weekday()) + 7) % 7

	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, c.loc).
		AddDate(0, 0, daysAhead)

	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}

	return candidate
}

// NextDate возвращает момент (месяц, день, время) в текущем году, а если он
// уже прошёл — в ближайшем году, где такая дата существует. Последнее важно
// для 29 февраля: до следующего високосного года дата перескакивает несколько
// лет.
func (c *ScheduleCalculator) NextDate(month, day, hour, minute int, now time.Time) time.Time {
	now = now.In(c.loc)

	for year := now.Year(); ; year++ {
		candidate := time.Date(year, time.Month(month), day, hour, minute, 0, 0, c.loc)

		if int(candidate.Month()) != month || candidate.Day() != day {
			continue
		}

		if candidate.After(now) {
			return candidate
		}
	}
}

// mondayIndex переводит time.Weekday (воскресенье = 0) в нумерацию с
// понедельника.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
