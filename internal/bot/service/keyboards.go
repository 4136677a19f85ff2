package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

const (
	actionMenuGeneral = "menu:general"
	actionMenuAPK     = "menu:apk"
	actionMenuPeople  = "menu:people"
	actionMenuList    = "menu:list"
	actionNavMenu     = "nav:menu"
	actionNavBack     = "nav:back"

	actionGeneralSingle = "general:single"
	actionGeneralCycle  = "general:cycle"

	actionWeekdayToggle = "weekday:toggle"
	actionWeekdayNext   = "weekday:next"

	actionMentionToggle = "mention:toggle"
	actionMentionDone   = "mention:done"

	actionPeopleAdd    = "people:add"
	actionPeopleDelete = "people:delete"
	actionPeopleDel    = "people:del"
	actionPeopleDone   = "people:done"

	actionListItem = "list:item"
	actionListDel  = "list:del"
)

const (
	labelBack = "« Назад"
	labelMenu = "« Главное меню"
)

const (
	promptDate        = "Введите дату в формате ММДД, например 0305 — 5 марта."
	promptTime        = "Введите время в формате ЧЧММ, например 0930."
	promptText        = "Введите текст напоминания."
	promptCycleDays   = "В какие дни недели напоминать?"
	promptAPKDays     = "В какие дни недели выходит APK?"
	promptWeekdayNext = "Отметьте дни недели и нажмите «Далее»."
)

func navRow() []models.Button {
	return []models.Button{
		{Label: labelBack, Action: actionNavBack},
		{Label: labelMenu, Action: actionNavMenu},
	}
}

// inputPromptReply — приглашение к вводу текста с навигацией на шаг назад и
// в главное меню.
func inputPromptReply(text string) *models.Reply {
	return models.NewReply(text).WithKeyboard(navRow())
}

func mainMenuReply() *models.Reply {
	return models.NewReply("Выберите действие:").WithKeyboard(
		[]models.Button{{Label: "📝 Общее напоминание", Action: actionMenuGeneral}},
		[]models.Button{{Label: "📦 Напоминание о выпуске APK", Action: actionMenuAPK}},
		[]models.Button{{Label: "👥 Список участников", Action: actionMenuPeople}},
		[]models.Button{{Label: "📋 Все напоминания", Action: actionMenuList}},
	)
}

func generalMenuReply() *models.Reply {
	return models.NewReply("Какое напоминание создать?").WithKeyboard(
		[]models.Button{{Label: "📅 Однократное (по дате)", Action: actionGeneralSingle}},
		[]models.Button{{Label: "🔁 Еженедельное (по циклу)", Action: actionGeneralCycle}},
		[]models.Button{{Label: labelMenu, Action: actionNavMenu}},
	)
}

// weekdayReply строит клавиатуру выбора дней недели с отметками выбранных.
func weekdayReply(text string, draft *models.Draft) *models.Reply {
	firstRow := make([]models.Button, 0, 4)
	secondRow := make([]models.Button, 0, 3)

	for i, name := range models.WeekdayNames {
		label := name
		if draft.HasWeekday(i) {
			label = "✅ " + name
		}

		button := models.Button{Label: label, Action: fmt.Sprintf("%s:%d", actionWeekdayToggle, i)}
		if i < 4 {
			firstRow = append(firstRow, button)
		} else {
			secondRow = append(secondRow, button)
		}
	}

	return models.NewReply(text).WithKeyboard(
		firstRow,
		secondRow,
		[]models.Button{{Label: "Далее »", Action: actionWeekdayNext}},
		navRow(),
	)
}

func mentionReply(targets []*models.MentionTarget, draft *models.Draft) *models.Reply {
	keyboard := make([][]models.Button, 0, len(targets)+2)

	for _, target := range targets {
		label := fmt.Sprintf("%s (%s)", target.DisplayName, target.Handle)
		if draft.HasMention(target.ID) {
			label = "✅ " + label
		}

		keyboard = append(keyboard, []models.Button{
			{Label: label, Action: fmt.Sprintf("%s:%d", actionMentionToggle, target.ID)},
		})
	}

	keyboard = append(keyboard,
		[]models.Button{{Label: "Готово", Action: actionMentionDone}},
		navRow(),
	)

	return models.NewReply("Кого упомянуть в напоминании?").WithKeyboard(keyboard...)
}

func peopleMenuReply(targets []*models.MentionTarget) *models.Reply {
	var sb strings.Builder

	if len(targets) == 0 {
		sb.WriteString("В списке пока нет участников.")
	} else {
		sb.WriteString("Участники:\n")

		for _, target := range targets {
			sb.WriteString(fmt.Sprintf("• %s — %s\n", target.DisplayName, target.Handle))
		}
	}

	return models.NewReply(sb.String()).WithKeyboard(
		[]models.Button{{Label: "➕ Добавить участников", Action: actionPeopleAdd}},
		[]models.Button{{Label: "➖ Удалить участника", Action: actionPeopleDelete}},
		[]models.Button{{Label: labelMenu, Action: actionNavMenu}},
	)
}

func peopleDeleteReply(targets []*models.MentionTarget) *models.Reply {
	if len(targets) == 0 {
		return models.NewReply("Удалять некого: список участников пуст.").WithKeyboard(
			[]models.Button{{Label: labelBack, Action: actionPeopleDone}},
		)
	}

	keyboard := make([][]models.Button, 0, len(targets)+1)

	for _, target := range targets {
		keyboard = append(keyboard, []models.Button{
			{Label: fmt.Sprintf("%s (%s)", target.DisplayName, target.Handle), Action: fmt.Sprintf("%s:%d", actionPeopleDel, target.ID)},
		})
	}

	keyboard = append(keyboard, []models.Button{{Label: labelBack, Action: actionPeopleDone}})

	return models.NewReply("Кого удалить из списка?").WithKeyboard(keyboard...)
}

func reminderListReply(reminders []*models.Reminder, loc *time.Location) *models.Reply {
	if len(reminders) == 0 {
		return models.NewReply("В этом чате нет напоминаний.").WithKeyboard(
			[]models.Button{{Label: labelMenu, Action: actionNavMenu}},
		)
	}

	keyboard := make([][]models.Button, 0, len(reminders)+1)

	for _, reminder := range reminders {
		label := fmt.Sprintf("%s · %s", reminder.FireAt.In(loc).Format("02.01 15:04"), reminder.Kind.Label())
		keyboard = append(keyboard, []models.Button{
			{Label: label, Action: fmt.Sprintf("%s:%d", actionListItem, reminder.ID)},
		})
	}

	keyboard = append(keyboard, []models.Button{{Label: labelMenu, Action: actionNavMenu}})

	return models.NewReply("Напоминания чата:").WithKeyboard(keyboard...)
}

func reminderDetailReply(reminder *models.Reminder, loc *time.Location) *models.Reply {
	text := fmt.Sprintf("%s\nСработает: %s\n\n%s",
		reminder.Kind.Label(),
		reminder.FireAt.In(loc).Format("02.01.2006 15:04"),
		reminder.Body,
	)

	return models.NewReply(text).WithKeyboard(
		[]models.Button{{Label: "🗑 Удалить", Action: fmt.Sprintf("%s:%d", actionListDel, reminder.ID)}},
		[]models.Button{{Label: labelBack, Action: actionNavBack}},
	)
}
