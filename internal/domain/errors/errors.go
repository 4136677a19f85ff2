package errors

import (
	"fmt"
)

type ErrReminderNotFound struct {
	ID int64
}

func (e *ErrReminderNotFound) Error() string {
	return fmt.Sprintf("напоминание не найдено: %d", e.ID)
}

func (e *ErrReminderNotFound) Is(target error) bool {
	_, ok := target.(*ErrReminderNotFound)
	return ok
}

type ErrMentionTargetNotFound struct {
	ID int64
}

func (e *ErrMentionTargetNotFound) Error() string {
	return fmt.Sprintf("участник не найден: %d", e.ID)
}

func (e *ErrMentionTargetNotFound) Is(target error) bool {
	_, ok := target.(*ErrMentionTargetNotFound)
	return ok
}

// ErrDraftIncomplete возникает, когда финализация диалога не находит
// накопленных ранее полей черновика (например, после перезапуска процесса).
type ErrDraftIncomplete struct {
	Field string
}

func (e *ErrDraftIncomplete) Error() string {
	return fmt.Sprintf("в черновике отсутствует поле: %s", e.Field)
}

func (e *ErrDraftIncomplete) Is(target error) bool {
	_, ok := target.(*ErrDraftIncomplete)
	return ok
}

type ErrUnknownReminderKind struct {
	Kind string
}

func (e *ErrUnknownReminderKind) Error() string {
	return "неизвестный тип напоминания: " + e.Kind
}

func (e *ErrUnknownReminderKind) Is(target error) bool {
	_, ok := target.(*ErrUnknownReminderKind)
	return ok
}

type ErrUnknownCommand struct {
	Command string
}

func (e *ErrUnknownCommand) Error() string {
	return "неизвестная команда: " + e.Command
}

type ErrInvalidArgument struct {
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("некорректный аргумент: %s", e.Message)
}

type ErrMissingRequiredField struct {
	FieldName string
}

func (e *ErrMissingRequiredField) Error() string {
	return fmt.Sprintf("отсутствует обязательное поле: %s", e.FieldName)
}

func (e *ErrMissingRequiredField) Is(target error) bool {
	_, ok := target.(*ErrMissingRequiredField)
	return ok
}

// ErrFireAtInPast возникает, когда внешняя заявка просит создать разовое
// напоминание на уже прошедший момент.
type ErrFireAtInPast struct {
	FireAt int64
}

func (e *ErrFireAtInPast) Error() string {
	return fmt.Sprintf("момент срабатывания уже прошёл: %d", e.FireAt)
}

func (e *ErrFireAtInPast) Is(target error) bool {
	_, ok := target.(*ErrFireAtInPast)
	return ok
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

type ErrBeginTransaction struct {
	Cause error
}

func (e *ErrBeginTransaction) Error() string {
	return fmt.Sprintf("ошибка при начале транзакции: %v", e.Cause)
}

func (e *ErrBeginTransaction) Unwrap() error {
	return e.Cause
}

type ErrCommitTransaction struct {
	Cause error
}

func (e *ErrCommitTransaction) Error() string {
	return fmt.Sprintf("ошибка при фиксации транзакции: %v", e.Cause)
}

func (e *ErrCommitTransaction) Unwrap() error {
	return e.Cause
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}
