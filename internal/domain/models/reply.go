package models

// Button — одна инлайн-кнопка: подпись и токен действия вида domain:verb[:id].
type Button struct {
	Label  string
	Action string
}

// Reply — ответ ядра, который шлюз отправляет в чат.
type Reply struct {
	Text     string
	Keyboard [][]Button
}

func NewReply(text string) *Reply {
	return &Reply{Text: text}
}

func (r *Reply) WithKeyboard(rows ...[]Button) *Reply {
	r.Keyboard = rows
	return r
}
