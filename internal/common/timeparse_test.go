package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/central-university-dev/go-reminder-bot/internal/common"
)

func TestTimeParser_ParseDate(t *testing.T) {
	parser := common.NewTimeParser()

	tests := []struct {
		name      string
		token     string
		wantMonth int
		wantDay   int
		wantOK    bool
	}{
		{name: "обычная дата", token: "0305", wantMonth: 3, wantDay: 5, wantOK: true},
		{name: "конец года", token: "1231", wantMonth: 12, wantDay: 31, wantOK: true},
		{name: "начало года", token: "0101", wantMonth: 1, wantDay: 1, wantOK: true},
		{name: "29 февраля принимается", token: "0229", wantMonth: 2, wantDay: 29, wantOK: true},
		{name: "30 февраля отклоняется", token: "0230", wantOK: false},
		{name: "31 апреля отклоняется", token: "0431", wantOK: false},
		{name: "нулевой месяц", token: "0010", wantOK: false},
		{name: "тринадцатый месяц", token: "1301", wantOK: false},
		{name: "нулевой день", token: "0500", wantOK: false},
		{name: "слишком короткий токен", token: "305", wantOK: false},
		{name: "слишком длинный токен", token: "03051", wantOK: false},
		{name: "нецифровые символы", token: "03a5", wantOK: false},
		{name: "пустой токен", token: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, day, ok := parser.ParseDate(tt.token)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantMonth, month)
				assert.Equal(t, tt.wantDay, day)
			}
		})
	}
}

func TestTimeParser_ParseTime(t *testing.T) {
	parser := common.NewTimeParser()

	tests := []struct {
		name       string
		token      string
		wantHour   int
		wantMinute int
		wantOK     bool
	}{
		{name: "утро", token: "0930", wantHour: 9, wantMinute: 30, wantOK: true},
		{name: "полночь", token: "0000", wantHour: 0, wantMinute: 0, wantOK: true},
		{name: "последняя минута суток", token: "2359", wantHour: 23, wantMinute: 59, wantOK: true},
		{name: "час 24 отклоняется", token: "2400", wantOK: false},
		{name: "минута 60 отклоняется", token: "1260", wantOK: false},
		{name: "слишком короткий токен", token: "930", wantOK: false},
		{name: "нецифровые символы", token: "09:3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, ok := parser.ParseTime(tt.token)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantHour, hour)
				assert.Equal(t, tt.wantMinute, minute)
			}
		})
	}
}
