package models

type ChatState int

const (
	StateMenu ChatState = iota
	StateGeneralMenu
	StateSingleDate
	StateSingleTime
	StateSingleText
	StateCycleWeekday
	StateCycleTime
	StateCycleText
	StateCycleMentions
	StateAPKWeekday
	StateAPKTime
	StateAPKText
	StateAPKMentions
	StateReminderList
	StatePeopleMenu
	StatePeopleAdd
	StatePeopleDelete
)

// Draft — накопленный черновик напоминания в рамках многошагового диалога.
type Draft struct {
	Month      int
	Day        int
	Hour       int
	Minute     int
	Weekdays   []int
	Text       string
	MentionIDs []int64
}

// ToggleWeekday добавляет день недели в выбор или убирает его при повторном нажатии.
func (d *Draft) ToggleWeekday(weekday int) {
	for i, wd := range d.Weekdays {
		if wd == weekday {
			d.Weekdays = append(d.Weekdays[:i], d.Weekdays[i+1:]...)
			return
		}
	}

	d.Weekdays = append(d.Weekdays, weekday)
}

func (d *Draft) HasWeekday(weekday int) bool {
	for _, wd := range d.Weekdays {
		if wd == weekday {
			return true
		}
	}

	return false
}

func (d *Draft) ToggleMention(id int64) {
	for i, mid := range d.MentionIDs {
		if mid == id {
			d.MentionIDs = append(d.MentionIDs[:i], d.MentionIDs[i+1:]...)
			return
		}
	}

	d.MentionIDs = append(d.MentionIDs, id)
}

func (d *Draft) HasMention(id int64) bool {
	for _, mid := range d.MentionIDs {
		if mid == id {
			return true
		}
	}

	return false
}
