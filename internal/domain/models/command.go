package models

type CommandType string

const (
	CommandStart   CommandType = "/start"
	CommandMenu    CommandType = "/menu"
	CommandHelp    CommandType = "/help"
	CommandUnknown CommandType = "unknown"
)

type Command struct {
	Type     CommandType
	ChatID   int64
	UserID   int64
	Text     string
	Username string
}
