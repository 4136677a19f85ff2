package pkg

import (
	"io"
	"log/slog"
)

// NewLogger возвращает JSON-логгер, общий для бота и планировщика напоминаний.
func NewLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, nil)
	return slog.New(handler)
}
