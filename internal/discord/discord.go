// Package discord адаптирует discordgo к узкому интерфейсу Messenger,
// который потребляет мост. Здесь же конвертация входящих сообщений и
// проверка прав администратора.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/EgorLis/mcbridge/internal/bot"
	"github.com/EgorLis/mcbridge/pkg/logger"
)

type Adapter struct {
	s *discordgo.Session

	mu       sync.RWMutex
	channels map[string]string // имя канала -> id
}

func New(token string) (*Adapter, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Adapter{
		s:        s,
		channels: make(map[string]string),
	}, nil
}

// OnMessage регистрирует обработчик входящих сообщений. Сообщения любых
// ботов (включая собственные) отфильтровываются здесь.
func (a *Adapter) OnMessage(handle func(bot.Message)) {
	a.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		handle(bot.Message{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			AuthorID:  m.Author.ID,
			Author:    m.Author.Username,
			Bot:       m.Author.Bot,
			IsAdmin:   a.isAdmin(m),
			Content:   m.Content,
		})
	})
}

func (a *Adapter) Open() error {
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	logger.Log.WithField("user", a.s.State.User.Username).Info("discord bot logged in")
	return nil
}

func (a *Adapter) Close() {
	_ = a.s.Close()
}

func (a *Adapter) isAdmin(m *discordgo.MessageCreate) bool {
	perms, err := a.s.State.MessagePermissions(m.Message)
	if err != nil {
		perms, err = a.s.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

// ========================= Messenger =========================

var _ bot.Messenger = (*Adapter)(nil)

// ChannelID ищет текстовый канал по имени среди всех гильдий бота.
// Результат кэшируется.
func (a *Adapter) ChannelID(name string) string {
	a.mu.RLock()
	id, ok := a.channels[name]
	a.mu.RUnlock()
	if ok {
		return id
	}
	for _, g := range a.s.State.Guilds {
		for _, ch := range g.Channels {
			if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
				a.mu.Lock()
				a.channels[name] = ch.ID
				a.mu.Unlock()
				return ch.ID
			}
		}
	}
	return ""
}

func (a *Adapter) Send(channelID, text string) (string, error) {
	msg, err := a.s.ChannelMessageSend(channelID, text)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (a *Adapter) SendEmbed(channelID string, e bot.Embed) (string, error) {
	msg, err := a.s.ChannelMessageSendEmbed(channelID, toDiscordEmbed(e))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (a *Adapter) React(channelID, messageID, emoji string) error {
	return a.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (a *Adapter) Delete(channelID, messageID string) error {
	return a.s.ChannelMessageDelete(channelID, messageID)
}

// SetPresence обновляет статус бота по состоянию игрового соединения.
func (a *Adapter) SetPresence(online bool) {
	status := "dnd"
	activity := "Server Offline"
	if online {
		status = "online"
		activity = "Minecraft Server Online"
	}
	err := a.s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{{
			Name: activity,
			Type: discordgo.ActivityTypeWatching,
		}},
	})
	if err != nil {
		logger.Log.WithError(err).Warn("presence update failed")
	}
}

func toDiscordEmbed(e bot.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.Timestamp {
		out.Timestamp = time.Now().Format(time.RFC3339)
	}
	return out
}
