package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/EgorLis/mcbridge/pkg/logger"
)

const cmdPrefix = "!mc"

// HandleMessage — вход роутера. Вызывается адаптером Discord на каждое
// входящее сообщение не-бота.
func (b *Bridge) HandleMessage(m Message) {
	if m.Bot {
		return
	}
	bridgeID := b.bridgeChannelID()
	text := strings.TrimSpace(m.Content)

	if !strings.HasPrefix(text, cmdPrefix) {
		// обычное сообщение в мостовом канале — переправляем в игру
		if m.ChannelID == bridgeID {
			if s := b.session(); s != nil && s.HasEntity() {
				_ = s.Chat(fmt.Sprintf("[Discord] %s: %s", m.Author, m.Content))
			}
		}
		return
	}

	args := strings.Fields(strings.TrimSpace(text[len(cmdPrefix):]))
	cmd := ""
	if len(args) > 0 {
		cmd = strings.ToLower(args[0])
		args = args[1:]
	}

	// tell и rules принимаются из любого канала; остальное — только в
	// мостовом, иначе молча игнорируем
	if cmd != "tell" && cmd != "rules" && m.ChannelID != bridgeID {
		return
	}

	if cmd == "tell" {
		// командное сообщение удаляется всегда, успех или нет
		defer func() { _ = b.dc.Delete(m.ChannelID, m.ID) }()
	}

	// гейт по подключению: всё, кроме help, требует живого аватара.
	// Сессию фиксируем здесь: параллельный disconnect/restart может
	// обнулить b.sess между гейтом и веткой, а устаревшая ссылка, в
	// отличие от нулевой, безопасна.
	var s mcagent.Session
	if cmd != "help" {
		s = b.session()
		if s == nil || !s.HasEntity() {
			b.sendTemp(m.ChannelID, "⚠️ Not connected to Minecraft server. Try again later.")
			return
		}
	}

	logger.Log.WithField("cmd", cmd).WithField("author", m.AuthorID).Debug("command")

	switch cmd {

	case "status":
		b.sendEmbed(m.ChannelID, statusEmbed(b.cfg.MCHost, b.cfg.MCPort, b.Online(), s.Players()))

	case "list":
		b.sendEmbed(m.ChannelID, listEmbed(s.Players()))

	case "say":
		if !b.requireAllowed(m) {
			return
		}
		text := strings.Join(args, " ")
		if text == "" {
			b.sendTemp(m.ChannelID, "Please provide a message to send.")
			return
		}
		if err := s.Chat(text); err != nil {
			b.sendTemp(m.ChannelID, fmt.Sprintf("Error sending message: %v", err))
			return
		}
		b.sendTemp(m.ChannelID, "✅ Message sent.")

	case "tell":
		if !b.requireAllowed(m) {
			return
		}
		text := strings.Join(args, " ")
		if text == "" {
			b.sendTemp(m.ChannelID, "Please provide a message to send.")
			return
		}
		b.toBridgeEmbed(tellEmbed(m.Author, text))

	case "cmd":
		if !b.requireAdmin(m) {
			return
		}
		raw := strings.Join(args, " ")
		if raw == "" {
			b.send(m.ChannelID, "Please provide a command to execute.")
			return
		}
		if err := s.Command(raw); err != nil {
			b.send(m.ChannelID, fmt.Sprintf("Error executing command: %v", err))
			return
		}
		_ = b.dc.React(m.ChannelID, m.ID, "✅")

	case "time":
		clock, day := formatTimeOfDay(s.TimeOfDay())
		b.sendEmbed(m.ChannelID, timeEmbed(clock, day))

	case "weather":
		b.sendEmbed(m.ChannelID, weatherEmbed(s.Raining()))

	case "tp":
		if !b.requireAdmin(m) {
			return
		}
		if len(args) < 2 {
			b.send(m.ChannelID, "Usage: !mc tp <player1> <player2>")
			return
		}
		if err := s.Command(fmt.Sprintf("tp %s %s", args[0], args[1])); err != nil {
			b.send(m.ChannelID, fmt.Sprintf("Error executing command: %v", err))
			return
		}
		_ = b.dc.React(m.ChannelID, m.ID, "✅")

	case "kick":
		if !b.requireAdmin(m) {
			return
		}
		if len(args) < 1 {
			b.send(m.ChannelID, "Usage: !mc kick <player> [reason]")
			return
		}
		reason := strings.Join(args[1:], " ")
		if reason == "" {
			reason = "Kicked by admin"
		}
		if err := s.Command(fmt.Sprintf("kick %s %s", args[0], reason)); err != nil {
			b.send(m.ChannelID, fmt.Sprintf("Error executing command: %v", err))
			return
		}
		_ = b.dc.React(m.ChannelID, m.ID, "✅")

	case "restart":
		if !b.requireAdmin(m) {
			return
		}
		b.send(m.ChannelID, "🔄 Attempting to reconnect to the Minecraft server...")
		b.Restart(func() {
			b.send(m.ChannelID, "✅ Reconnection attempt initiated.")
		})

	case "disconnect":
		if !b.requireAllowed(m) {
			return
		}
		if err := b.DisconnectGame(); err != nil {
			b.sendTemp(m.ChannelID, "⚠️ Already disconnected.")
			return
		}
		b.send(m.ChannelID, "✅ Disconnected from the Minecraft server.")

	case "follow":
		if !b.requireAllowed(m) {
			return
		}
		if len(args) < 1 {
			b.sendTemp(m.ChannelID, "Usage: !mc follow <player>")
			return
		}
		if err := b.startFollow(args[0]); err != nil {
			b.sendTemp(m.ChannelID, fmt.Sprintf("⚠️ %v", err))
			return
		}
		b.send(m.ChannelID, fmt.Sprintf("🚶 Following **%s**.", args[0]))

	case "stopfollow":
		if !b.requireAllowed(m) {
			return
		}
		b.stopFollow()
		b.send(m.ChannelID, "🛑 Stopped following.")

	case "comehere":
		if !b.requireAllowed(m) {
			return
		}
		if len(args) < 1 {
			b.sendTemp(m.ChannelID, "Usage: !mc comehere <player>")
			return
		}
		b.comeHere(m.ChannelID, args[0])

	case "attack":
		if !b.requireAllowed(m) {
			return
		}
		if len(args) < 1 {
			b.sendTemp(m.ChannelID, "Usage: !mc attack <mobType>")
			return
		}
		b.manualAttack(m.ChannelID, args[0])

	case "autoattack":
		if !b.requireAllowed(m) {
			return
		}
		b.handleAutoAttack(m, args)

	case "setviewdistance":
		if !b.requireAllowed(m) {
			return
		}
		n, err := strconv.Atoi(strings.Join(args, ""))
		if err != nil || n < 2 || n > 32 {
			b.sendTemp(m.ChannelID, "Usage: !mc setviewdistance <2..32>")
			return
		}
		if err := s.SetViewDistance(n); err != nil {
			b.sendTemp(m.ChannelID, fmt.Sprintf("Error: %v", err))
			return
		}
		b.send(m.ChannelID, fmt.Sprintf("✅ View distance set to %d.", n))

	case "rules":
		if !b.requireAllowed(m) {
			return
		}
		// сначала удаляем вызвавшее сообщение
		_ = b.dc.Delete(m.ChannelID, m.ID)
		b.sendEmbed(m.ChannelID, rulesEmbed())

	default:
		// неизвестная команда ведёт себя как help
		b.sendEmbed(m.ChannelID, helpEmbed())
	}
}

// ========================= авторизация =========================

// requireAllowed — фиксированный список id пользователей.
func (b *Bridge) requireAllowed(m Message) bool {
	for _, id := range b.cfg.AllowedIDs {
		if id == m.AuthorID {
			return true
		}
	}
	b.sendTemp(m.ChannelID, "⛔ You are not allowed to use this command.")
	return false
}

// requireAdmin — административное право на платформе.
func (b *Bridge) requireAdmin(m Message) bool {
	if m.IsAdmin {
		return true
	}
	b.send(m.ChannelID, "You do not have permission to use this command.")
	return false
}

// ========================= утилиты =========================

func (b *Bridge) send(channelID, text string) {
	if _, err := b.dc.Send(channelID, text); err != nil {
		logger.Log.WithError(err).Warn("discord send failed")
	}
}

func (b *Bridge) sendEmbed(channelID string, e Embed) {
	if _, err := b.dc.SendEmbed(channelID, e); err != nil {
		logger.Log.WithError(err).Warn("discord send failed")
	}
}

// formatTimeOfDay переводит игровые тики в часы:минуты. Сутки начинаются
// в 06:00 (тик 0), 1000 тиков — час.
func formatTimeOfDay(ticks int) (clock string, day bool) {
	hours := (ticks/1000 + 6) % 24
	minutes := int(float64(ticks%1000) / 16.66)
	day = hours >= 6 && hours < 18
	return fmt.Sprintf("%02d:%02d", hours, minutes), day
}
