package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-reminder-bot/internal/common"
)

func taipei(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	return loc
}

func TestScheduleCalculator_NextWeekday(t *testing.T) {
	loc := taipei(t)
	calc := common.NewScheduleCalculator(loc)

	// Среда, 15 января 2025, 12:00.
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, loc)
	require.Equal(t, time.Wednesday, now.Weekday())

	tests := []struct {
		name    string
		weekday int
		hour    int
		minute  int
		want    time.Time
	}{
		{
			name:    "позже сегодня",
			weekday: 2, hour: 18, minute: 30,
			want: time.Date(2025, 1, 15, 18, 30, 0, 0, loc),
		},
		{
			name:    "сегодняшнее время уже прошло, через неделю",
			weekday: 2, hour: 9, minute: 0,
			want: time.Date(2025, 1, 22, 9, 0, 0, 0, loc),
		},
		{
			name:    "завтра",
			weekday: 3, hour: 9, minute: 0,
			want: time.Date(2025, 1, 16, 9, 0, 0, 0, loc),
		},
		{
			name:    "понедельник на следующей неделе",
			weekday: 0, hour: 10, minute: 15,
			want: time.Date(2025, 1, 20, 10, 15, 0, 0, loc),
		},
		{
			name:    "воскресенье этой недели",
			weekday: 6, hour: 8, minute: 0,
			want: time.Date(2025, 1, 19, 8, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.NextWeekday(tt.weekday, tt.hour, tt.minute, now)
			assert.True(t, got.Equal(tt.want), "ожидалось %s, получено %s", tt.want, got)
			assert.True(t, got.After(now))
		})
	}
}

func TestScheduleCalculator_NextDate(t *testing.T) {
	loc := taipei(t)
	calc := common.NewScheduleCalculator(loc)

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		name  string
		month int
		day   int
		hour  int
		min   int
		want  time.Time
	}{
		{
			name:  "позже в этом году",
			month: 12, day: 31, hour: 9, min: 0,
			want: time.Date(2025, 12, 31, 9, 0, 0, 0, loc),
		},
		{
			name:  "уже прошло, следующий год",
			month: 3, day: 5, hour: 9, min: 0,
			want: time.Date(2026, 3, 5, 9, 0, 0, 0, loc),
		},
		{
			name:  "сегодня, но время ещё впереди",
			month: 6, day: 10, hour: 18, min: 0,
			want: time.Date(2025, 6, 10, 18, 0, 0, 0, loc),
		},
		{
			name:  "сегодня, время уже прошло",
			month: 6, day: 10, hour: 8, min: 0,
			want: time.Date(2026, 6, 10, 8, 0, 0, 0, loc),
		},
		{
			name:  "29 февраля ждёт високосного года",
			month: 2, day: 29, hour: 9, min: 0,
			want: time.Date(2028, 2, 29, 9, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.NextDate(tt.month, tt.day, tt.hour, tt.min, now)
			assert.True(t, got.Equal(tt.want), "ожидалось %s, получено %s", tt.want, got)
			assert.True(t, got.After(now))
		})
	}
}
