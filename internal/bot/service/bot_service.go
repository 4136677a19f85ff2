package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	commonservice "github.com/central-university-dev/go-reminder-bot/internal/common"
	"github.com/central-university-dev/go-reminder-bot/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/models"
)

type SessionRepository interface {
	GetState(ctx context.Context, chatID int64) (models.ChatState, error)

	SetState(ctx context.Context, chatID int64, state models.ChatState) error

	GetDraft(ctx context.Context, chatID int64) (*models.Draft, error)

	SetDraft(ctx context.Context, chatID int64, draft *models.Draft) error

	ClearDraft(ctx context.Context, chatID int64) error
}

type ReminderRepository interface {
	Add(ctx context.Context, reminder *models.Reminder) error

	GetByID(ctx context.Context, id int64) (*models.Reminder, error)

	ListByChat(ctx context.Context, chatID int64) ([]*models.Reminder, error)

	ListAll(ctx context.Context) ([]*models.Reminder, error)

	Delete(ctx context.Context, id int64) error
}

type MentionRepository interface {
	Upsert(ctx context.Context, target *models.MentionTarget) error

	List(ctx context.Context, chatID int64) ([]*models.MentionTarget, error)

	Delete(ctx context.Context, id int64) error
}

// ReminderScheduler вооружает и снимает отложенные задания. Задание несёт
// только идентификатор напоминания, всё остальное перечитывается из хранилища.
type ReminderScheduler interface {
	Arm(id int64, fireAt time.Time) error

	Cancel(id int64)
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type BotService struct {
	sessions  SessionRepository
	reminders ReminderRepository
	mentions  MentionRepository
	scheduler ReminderScheduler
	txManager Transactor
	parser    *commonservice.TimeParser
	calc      *commonservice.ScheduleCalculator
	logger    *slog.Logger
}

func NewBotService(
	sessions SessionRepository,
	reminders ReminderRepository,
	mentions MentionRepository,
	scheduler ReminderScheduler,
	txManager Transactor,
	parser *commonservice.TimeParser,
	calc *commonservice.ScheduleCalculator,
	logger *slog.Logger,
) *BotService {
	return &BotService{
		sessions:  sessions,
		reminders: reminders,
		mentions:  mentions,
		scheduler: scheduler,
		txManager: txManager,
		parser:    parser,
		calc:      calc,
		logger:    logger,
	}
}

func (s *BotService) ProcessCommand(ctx context.Context, command *models.Command) (*models.Reply, error) {
	//nolint:exhaustive // CommandUnknown обрабатывается в блоке default
	switch command.Type {
	case models.CommandStart:
		if err := s.resetSession(ctx, command.ChatID); err != nil {
			return nil, err
		}

		reply := mainMenuReply()
		reply.Text = "Привет! Я бот-напоминалка для этого чата.\n\n" + reply.Text

		return reply, nil
	case models.CommandMenu:
		if err := s.resetSession(ctx, command.ChatID); err != nil {
			return nil, err
		}

		return mainMenuReply(), nil
	case models.CommandHelp:
		return models.NewReply(
			"Доступные команды:\n" +
				"/menu — открыть главное меню\n" +
				"/help — эта справка\n\n" +
				"Через меню можно создать разовое или еженедельное напоминание, " +
				"напоминание о выпуске APK, а также вести список участников для упоминаний.",
		), nil
	default:
		return models.NewReply("Неизвестная команда. Введите /help для просмотра доступных команд."),
			&domainerrors.ErrUnknownCommand{Command: string(command.Type)}
	}
}

func (s *BotService) ProcessMessage(ctx context.Context, chatID int64, text string) (*models.Reply, error) {
	state, err := s.sessions.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	switch state {
	case models.StateSingleDate:
		return s.handleDateInput(ctx, chatID, text)
	case models.StateSingleTime, models.StateCycleTime, models.StateAPKTime:
		return s.handleTimeInput(ctx, chatID, state, text)
	case models.StateSingleText, models.StateCycleText, models.StateAPKText:
		return s.handleTextInput(ctx, chatID, state, text)
	case models.StatePeopleAdd:
		return s.handlePeopleAdd(ctx, chatID, text)
	default:
		return models.NewReply("Используйте кнопки меню. Открыть меню: /menu"), nil
	}
}

func (s *BotService) ProcessCallback(ctx context.Context, chatID int64, data string) (*models.Reply, error) {
	action, id := parseAction(data)

	switch action {
	case actionNavMenu:
		if err := s.resetSession(ctx, chatID); err != nil {
			return nil, err
		}

		return mainMenuReply(), nil
	case actionNavBack:
		return s.handleBack(ctx, chatID)
	case actionMenuGeneral:
		if err := s.sessions.SetState(ctx, chatID, models.StateGeneralMenu); err != nil {
			return nil, err
		}

		return generalMenuReply(), nil
	case actionMenuAPK:
		return s.startWeekdayFlow(ctx, chatID, models.StateAPKWeekday, promptAPKDays)
	case actionMenuPeople:
		return s.showPeopleMenu(ctx, chatID)
	case actionMenuList:
		return s.showReminderList(ctx, chatID)
	case actionGeneralSingle:
		return s.startSingleFlow(ctx, chatID)
	case actionGeneralCycle:
		return s.startWeekdayFlow(ctx, chatID, models.StateCycleWeekday, promptCycleDays)
	case actionWeekdayToggle:
		return s.handleWeekdayToggle(ctx, chatID, int(id))
	case actionWeekdayNext:
		return s.handleWeekdayNext(ctx, chatID)
	case actionMentionToggle:
		return s.handleMentionToggle(ctx, chatID, id)
	case actionMentionDone:
		return s.handleMentionDone(ctx, chatID)
	case actionPeopleAdd:
		if err := s.sessions.SetState(ctx, chatID, models.StatePeopleAdd); err != nil {
			return nil, err
		}

		return models.NewReply(
			"Отправьте участников, по одному на строку, в формате:\n" +
				"ник имя\n\n" +
				"Например:\nivan Иван Петров\n@anna Анна",
		), nil
	case actionPeopleDelete:
		return s.showPeopleDelete(ctx, chatID)
	case actionPeopleDel:
		return s.handlePeopleDel(ctx, chatID, id)
	case actionPeopleDone:
		return s.showPeopleMenu(ctx, chatID)
	case actionListItem:
		return s.showReminderDetail(ctx, chatID, id)
	case actionListDel:
		return s.handleReminderDelete(ctx, chatID, id)
	default:
		s.logger.Warn("Неизвестный токен действия",
			"chat_id", chatID,
			"action", data,
		)

		if err := s.resetSession(ctx, chatID); err != nil {
			return nil, err
		}

		return mainMenuReply(), nil
	}
}

// parseAction разбирает токен вида domain:verb[:id]. Если последний сегмент
// числовой, он отделяется как идентификатор.
func parseAction(data string) (action string, id int64) {
	idx := strings.LastIndex(data, ":")
	if idx < 0 {
		return data, 0
	}

	parsed, err := strconv.ParseInt(data[idx+1:], 10, 64)
	if err != nil {
		return data, 0
	}

	return data[:idx], parsed
}

func (s *BotService) resetSession(ctx context.Context, chatID int64) error {
	if err := s.sessions.ClearDraft(ctx, chatID); err != nil {
		return err
	}

	return s.sessions.SetState(ctx, chatID, models.StateMenu)
}

// handleBack возвращает диалог ровно на один шаг. Внутри незавершённого
// диалога черновик не сбрасывается: уже введённые поля переживают шаг назад.
func (s *BotService) handleBack(ctx context.Context, chatID int64) (*models.Reply, error) {
	state, err := s.sessions.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustive // из остальных состояний возврат ведёт в главное меню
	switch state {
	case models.StateSingleDate, models.StateCycleWeekday:
		if err := s.sessions.SetState(ctx, chatID, models.StateGeneralMenu); err != nil {
			return nil, err
		}

		return generalMenuReply(), nil
	case models.StateSingleTime:
		return s.backTo(ctx, chatID, models.StateSingleDate, inputPromptReply(promptDate))
	case models.StateSingleText:
		return s.backTo(ctx, chatID, models.StateSingleTime, inputPromptReply(promptTime))
	case models.StateCycleTime, models.StateAPKTime:
		draft, err := s.sessions.GetDraft(ctx, chatID)
		if err != nil {
			return nil, err
		}

		prev := models.StateCycleWeekday
		prompt := promptCycleDays

		if state == models.StateAPKTime {
			prev = models.StateAPKWeekday
			prompt = promptAPKDays
		}

		return s.backTo(ctx, chatID, prev, weekdayReply(prompt, draft))
	case models.StateCycleText:
		return s.backTo(ctx, chatID, models.StateCycleTime, inputPromptReply(promptTime))
	case models.StateAPKText:
		return s.backTo(ctx, chatID, models.StateAPKTime, inputPromptReply(promptTime))
	case models.StateCycleMentions:
		return s.backTo(ctx, chatID, models.StateCycleText, inputPromptReply(promptText))
	case models.StateAPKMentions:
		return s.backTo(ctx, chatID, models.StateAPKText, inputPromptReply(promptText))
	case models.StateReminderList:
		return s.showReminderList(ctx, chatID)
	case models.StatePeopleAdd, models.StatePeopleDelete:
		return s.showPeopleMenu(ctx, chatID)
	default:
		if err := s.resetSession(ctx, chatID); err != nil {
			return nil, err
		}

		return mainMenuReply(), nil
	}
}

func (s *BotService) backTo(ctx context.Context, chatID int64, state models.ChatState, reply *models.Reply) (*models.Reply, error) {
	if err := s.sessions.SetState(ctx, chatID, state); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *BotService) startSingleFlow(ctx context.Context, chatID int64) (*models.Reply, error) {
	if err := s.sessions.SetDraft(ctx, chatID, &models.Draft{}); err != nil {
		return nil, err
	}

	if err := s.sessions.SetState(ctx, chatID, models.StateSingleDate); err != nil {
		return nil, err
	}

	return inputPromptReply(promptDate), nil
}

func (s *BotService) startWeekdayFlow(ctx context.Context, chatID int64, state models.ChatState, prompt string) (*models.Reply, error) {
	draft := &models.Draft{}

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	if err := s.sessions.SetState(ctx, chatID, state); err != nil {
		return nil, err
	}

	return weekdayReply(prompt, draft), nil
}

func (s *BotService) handleDateInput(ctx context.Context, chatID int64, text string) (*models.Reply, error) {
	month, day, ok := s.parser.ParseDate(text)
	if !ok {
		return inputPromptReply("Неверный формат даты. Введите ММДД, например 0305."), nil
	}

	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft.Month = month
	draft.Day = day

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	if err := s.sessions.SetState(ctx, chatID, models.StateSingleTime); err != nil {
		return nil, err
	}

	return inputPromptReply(promptTime), nil
}

func (s *BotService) handleTimeInput(ctx context.Context, chatID int64, state models.ChatState, text string) (*models.Reply, error) {
	hour, minute, ok := s.parser.ParseTime(text)
	if !ok {
		return inputPromptReply("Неверный формат времени. Введите ЧЧММ, например 0930."), nil
	}

	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft.Hour = hour
	draft.Minute = minute

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	var next models.ChatState

	//nolint:exhaustive // вызывается только из состояний ввода времени
	switch state {
	case models.StateSingleTime:
		next = models.StateSingleText
	case models.StateCycleTime:
		next = models.StateCycleText
	default:
		next = models.StateAPKText
	}

	if err := s.sessions.SetState(ctx, chatID, next); err != nil {
		return nil, err
	}

	return inputPromptReply(promptText), nil
}

func (s *BotService) handleTextInput(ctx context.Context, chatID int64, state models.ChatState, text string) (*models.Reply, error) {
	if text == "" {
		return inputPromptReply("Текст напоминания не может быть пустым. Попробуйте ещё раз."), nil
	}

	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft.Text = text

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	if state == models.StateSingleText {
		reply, err := s.finalizeSingle(ctx, chatID, draft)
		return s.recoverDraftLoss(ctx, chatID, reply, err)
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	kind := models.KindWeeklyCycle
	mentionState := models.StateCycleMentions

	if state == models.StateAPKText {
		kind = models.KindAPKWeekly
		mentionState = models.StateAPKMentions
	}

	if len(targets) == 0 {
		reply, err := s.finalizeWeekly(ctx, chatID, draft, kind)
		return s.recoverDraftLoss(ctx, chatID, reply, err)
	}

	if err := s.sessions.SetState(ctx, chatID, mentionState); err != nil {
		return nil, err
	}

	return mentionReply(targets, draft), nil
}

func (s *BotService) handleWeekdayToggle(ctx context.Context, chatID int64, weekday int) (*models.Reply, error) {
	if weekday < 0 || weekday > 6 {
		return nil, &domainerrors.ErrInvalidArgument{Message: fmt.Sprintf("день недели: %d", weekday)}
	}

	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft.ToggleWeekday(weekday)

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	return weekdayReply(promptWeekdayNext, draft), nil
}

func (s *BotService) handleWeekdayNext(ctx context.Context, chatID int64) (*models.Reply, error) {
	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if len(draft.Weekdays) == 0 {
		return weekdayReply("Выберите хотя бы один день недели.", draft), nil
	}

	state, err := s.sessions.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	next := models.StateCycleTime
	if state == models.StateAPKWeekday {
		next = models.StateAPKTime
	}

	if err := s.sessions.SetState(ctx, chatID, next); err != nil {
		return nil, err
	}

	return inputPromptReply(promptTime), nil
}

func (s *BotService) handleMentionToggle(ctx context.Context, chatID, targetID int64) (*models.Reply, error) {
	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft.ToggleMention(targetID)

	if err := s.sessions.SetDraft(ctx, chatID, draft); err != nil {
		return nil, err
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return mentionReply(targets, draft), nil
}

func (s *BotService) handleMentionDone(ctx context.Context, chatID int64) (*models.Reply, error) {
	state, err := s.sessions.GetState(ctx, chatID)
	if err != nil {
		return nil, err
	}

	draft, err := s.sessions.GetDraft(ctx, chatID)
	if err != nil {
		return nil, err
	}

	kind := models.KindWeeklyCycle
	if state == models.StateAPKMentions {
		kind = models.KindAPKWeekly
	}

	reply, err := s.finalizeWeekly(ctx, chatID, draft, kind)

	return s.recoverDraftLoss(ctx, chatID, reply, err)
}

// recoverDraftLoss переводит диалог в главное меню, если финализация не нашла
// накопленного черновика. Такое случается после перезапуска процесса: сессии
// живут только в памяти.
func (s *BotService) recoverDraftLoss(ctx context.Context, chatID int64, reply *models.Reply, err error) (*models.Reply, error) {
	if err == nil {
		return reply, nil
	}

	if errors.Is(err, &domainerrors.ErrDraftIncomplete{}) {
		s.logger.Warn("Черновик диалога утерян, сброс в главное меню",
			"chat_id", chatID,
			"error", err,
		)

		if resetErr := s.resetSession(ctx, chatID); resetErr != nil {
			return nil, resetErr
		}

		recovered := mainMenuReply()
		recovered.Text = "Диалог был сброшен, начните заново.\n\n" + recovered.Text

		return recovered, nil
	}

	return nil, err
}

func (s *BotService) finalizeSingle(ctx context.Context, chatID int64, draft *models.Draft) (*models.Reply, error) {
	if draft.Month == 0 {
		return nil, &domainerrors.ErrDraftIncomplete{Field: "date"}
	}

	if draft.Text == "" {
		return nil, &domainerrors.ErrDraftIncomplete{Field: "text"}
	}

	now := time.Now().In(s.calc.Location())
	fireAt := s.calc.NextDate(draft.Month, draft.Day, draft.Hour, draft.Minute, now)

	reminder := &models.Reminder{
		ChatID: chatID,
		Kind:   models.KindSingleDate,
		FireAt: fireAt,
		Body:   draft.Text,
	}

	if err := s.reminders.Add(ctx, reminder); err != nil {
		return nil, err
	}

	if err := s.scheduler.Arm(reminder.ID, reminder.FireAt); err != nil {
		return nil, err
	}

	metrics.RecordReminderCreated(string(models.KindSingleDate), "telegram")

	if err := s.resetSession(ctx, chatID); err != nil {
		return nil, err
	}

	reply := mainMenuReply()
	reply.Text = fmt.Sprintf("Готово! Разовое напоминание создано на %s.\n\n%s",
		fireAt.Format("02.01.2006 15:04"), reply.Text)

	return reply, nil
}

func (s *BotService) finalizeWeekly(ctx context.Context, chatID int64, draft *models.Draft, kind models.ReminderKind) (*models.Reply, error) {
	if len(draft.Weekdays) == 0 {
		return nil, &domainerrors.ErrDraftIncomplete{Field: "weekdays"}
	}

	if draft.Text == "" {
		return nil, &domainerrors.ErrDraftIncomplete{Field: "text"}
	}

	suffix, err := s.mentionSuffix(ctx, chatID, draft.MentionIDs)
	if err != nil {
		return nil, err
	}

	weekdays := make([]int, len(draft.Weekdays))
	copy(weekdays, draft.Weekdays)
	sort.Ints(weekdays)

	now := time.Now().In(s.calc.Location())
	created := make([]*models.Reminder, 0, len(weekdays))

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for _, weekday := range weekdays {
			reminder := &models.Reminder{
				ChatID: chatID,
				Kind:   kind,
				FireAt: s.calc.NextWeekday(weekday, draft.Hour, draft.Minute, now),
				Body:   weeklyBody(kind, weekday, draft.Hour, draft.Minute, draft.Text) + suffix,
			}

			if err := s.reminders.Add(ctx, reminder); err != nil {
				return err
			}

			created = append(created, reminder)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, reminder := range created {
		if err := s.scheduler.Arm(reminder.ID, reminder.FireAt); err != nil {
			return nil, err
		}

		metrics.RecordReminderCreated(string(kind), "telegram")
	}

	if err := s.resetSession(ctx, chatID); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(weekdays))
	for _, weekday := range weekdays {
		names = append(names, models.WeekdayNames[weekday])
	}

	reply := mainMenuReply()
	reply.Text = fmt.Sprintf("Готово! Создано напоминаний: %d (%s в %02d:%02d).\n\n%s",
		len(created), strings.Join(names, ", "), draft.Hour, draft.Minute, reply.Text)

	return reply, nil
}

// mentionSuffix собирает строку упоминаний, которая дописывается к тексту
// напоминания при создании. Упоминания запекаются в тело: последующее
// изменение списка участников уже созданные напоминания не затрагивает.
func (s *BotService) mentionSuffix(ctx context.Context, chatID int64, mentionIDs []int64) (string, error) {
	if len(mentionIDs) == 0 {
		return "", nil
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return "", err
	}

	selected := make(map[int64]bool, len(mentionIDs))
	for _, id := range mentionIDs {
		selected[id] = true
	}

	handles := make([]string, 0, len(mentionIDs))

	for _, target := range targets {
		if selected[target.ID] {
			handles = append(handles, target.Handle)
		}
	}

	if len(handles) == 0 {
		return "", nil
	}

	return "\n" + strings.Join(handles, " "), nil
}

func weeklyBody(kind models.ReminderKind, weekday, hour, minute int, text string) string {
	if kind == models.KindAPKWeekly {
		return fmt.Sprintf("📦 Напоминание о выпуске APK (%s %02d:%02d): %s",
			models.WeekdayNames[weekday], hour, minute, text)
	}

	return text
}

func (s *BotService) showPeopleMenu(ctx context.Context, chatID int64) (*models.Reply, error) {
	if err := s.sessions.SetState(ctx, chatID, models.StatePeopleMenu); err != nil {
		return nil, err
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return peopleMenuReply(targets), nil
}

func (s *BotService) showPeopleDelete(ctx context.Context, chatID int64) (*models.Reply, error) {
	if err := s.sessions.SetState(ctx, chatID, models.StatePeopleDelete); err != nil {
		return nil, err
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return peopleDeleteReply(targets), nil
}

func (s *BotService) handlePeopleDel(ctx context.Context, chatID, targetID int64) (*models.Reply, error) {
	if err := s.mentions.Delete(ctx, targetID); err != nil {
		return nil, err
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	reply := peopleDeleteReply(targets)
	reply.Text = "Участник удалён.\n\n" + reply.Text

	return reply, nil
}

// handlePeopleAdd разбирает пакетный ввод участников: одна строка — один
// участник, ник отделяется от имени первым пробельным разрывом. Ошибочные
// строки пропускаются и перечисляются в ответе.
func (s *BotService) handlePeopleAdd(ctx context.Context, chatID int64, text string) (*models.Reply, error) {
	var (
		added   int
		skipped []string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			skipped = append(skipped, line)
			continue
		}

		target := &models.MentionTarget{
			ChatID:      chatID,
			Handle:      fields[0],
			DisplayName: strings.Join(fields[1:], " "),
		}

		if err := s.mentions.Upsert(ctx, target); err != nil {
			return nil, err
		}

		added++
	}

	if err := s.sessions.SetState(ctx, chatID, models.StatePeopleMenu); err != nil {
		return nil, err
	}

	targets, err := s.mentions.List(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Добавлено участников: %d.", added)

	if len(skipped) > 0 {
		sb.WriteString("\nПропущены строки (нужен формат «ник имя»):\n")

		for _, line := range skipped {
			fmt.Fprintf(&sb, "• %s\n", line)
		}
	}

	reply := peopleMenuReply(targets)
	reply.Text = sb.String() + "\n\n" + reply.Text

	return reply, nil
}

func (s *BotService) showReminderList(ctx context.Context, chatID int64) (*models.Reply, error) {
	if err := s.sessions.SetState(ctx, chatID, models.StateReminderList); err != nil {
		return nil, err
	}

	reminders, err := s.reminders.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return reminderListReply(reminders, s.calc.Location()), nil
}

func (s *BotService) showReminderDetail(ctx context.Context, chatID, reminderID int64) (*models.Reply, error) {
	reminder, err := s.reminders.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, &domainerrors.ErrReminderNotFound{}) {
			reply, listErr := s.showReminderList(ctx, chatID)
			if listErr != nil {
				return nil, listErr
			}

			reply.Text = "Это напоминание уже удалено.\n\n" + reply.Text

			return reply, nil
		}

		return nil, err
	}

	return reminderDetailReply(reminder, s.calc.Location()), nil
}

// handleReminderDelete убирает напоминание: сперва строка в хранилище, затем
// задание планировщика. Порядок важен — выживший заряд без строки превращается
// в безвредный холостой выстрел, а не в напоминание-призрак.
func (s *BotService) handleReminderDelete(ctx context.Context, chatID, reminderID int64) (*models.Reply, error) {
	if err := s.reminders.Delete(ctx, reminderID); err != nil {
		return nil, err
	}

	s.scheduler.Cancel(reminderID)

	reply, err := s.showReminderList(ctx, chatID)
	if err != nil {
		return nil, err
	}

	reply.Text = "Напоминание удалено.\n\n" + reply.Text

	return reply, nil
}

// CreateFromRequest создаёт напоминание по внешней заявке, минуя диалог.
func (s *BotService) CreateFromRequest(ctx context.Context, request *models.ReminderRequest) error {
	kind := models.ReminderKind(request.Kind)
	if !kind.Valid() {
		return &domainerrors.ErrUnknownReminderKind{Kind: request.Kind}
	}

	if strings.TrimSpace(request.Text) == "" {
		return &domainerrors.ErrMissingRequiredField{FieldName: "text"}
	}

	if request.ChatID == 0 {
		return &domainerrors.ErrMissingRequiredField{FieldName: "chatId"}
	}

	now := time.Now().In(s.calc.Location())

	var reminder *models.Reminder

	if kind == models.KindSingleDate {
		if request.FireAt <= now.Unix() {
			return &domainerrors.ErrFireAtInPast{FireAt: request.FireAt}
		}

		reminder = &models.Reminder{
			ChatID: request.ChatID,
			Kind:   kind,
			FireAt: time.Unix(request.FireAt, 0),
			Body:   request.Text,
		}
	} else {
		if request.Weekday == nil || *request.Weekday < 0 || *request.Weekday > 6 {
			return &domainerrors.ErrMissingRequiredField{FieldName: "weekday"}
		}

		hour, minute, ok := s.parser.ParseTime(request.Time)
		if !ok {
			return &domainerrors.ErrInvalidArgument{Message: "time: ожидается ЧЧММ"}
		}

		reminder = &models.Reminder{
			ChatID: request.ChatID,
			Kind:   kind,
			FireAt: s.calc.NextWeekday(*request.Weekday, hour, minute, now),
			Body:   weeklyBody(kind, *request.Weekday, hour, minute, request.Text),
		}
	}

	if err := s.reminders.Add(ctx, reminder); err != nil {
		return err
	}

	if err := s.scheduler.Arm(reminder.ID, reminder.FireAt); err != nil {
		return err
	}

	metrics.RecordReminderCreated(string(kind), "kafka")

	return nil
}
