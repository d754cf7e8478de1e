package bot

// Messenger — узкая способность "чат-платформа", которую потребляет
// мост. Реализуется адаптером Discord; в тестах подменяется фейком.
type Messenger interface {
	// ChannelID возвращает id канала по имени ("" — канал не найден).
	ChannelID(name string) string
	Send(channelID, text string) (messageID string, err error)
	SendEmbed(channelID string, e Embed) (messageID string, err error)
	React(channelID, messageID, emoji string) error
	Delete(channelID, messageID string) error
	SetPresence(online bool)
}

// Message — входящее сообщение чат-платформы в том виде, в каком его
// видит роутер команд.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Author    string
	Bot       bool
	IsAdmin   bool
	Content   string
}

// Embed — платформо-независимое представление embed-сообщения.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   bool
}

type EmbedField struct {
	Name  string
	Value string
}
