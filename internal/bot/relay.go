package bot

import "fmt"

// Ретрансляция игровых событий в Discord: не более одного сообщения на
// событие, свои собственные эхо подавляются.

// botName — имя аватара, назначенное сервером (hello может отличаться от
// конфига, например при дедупликации ников); до hello — имя из конфига.
func (b *Bridge) botName() string {
	if s := b.session(); s != nil {
		if name := s.Username(); name != "" {
			return name
		}
	}
	return b.cfg.MCUsername
}

func (b *Bridge) relayChat(username, message string) {
	if username == b.botName() {
		// не эхоим собственные сообщения бота
		return
	}
	if username == "" {
		// системное сообщение сервера
		b.toBridge(fmt.Sprintf("**[SERVER]** %s", message))
		return
	}
	b.toBridge(fmt.Sprintf("**%s**: %s", username, message))
}

func (b *Bridge) relayJoin(username string) {
	if username == b.botName() {
		return
	}
	b.toBridge(fmt.Sprintf("🟢 **%s** joined the game", username))
}

func (b *Bridge) relayLeave(username string) {
	if username == b.botName() {
		return
	}
	b.toBridge(fmt.Sprintf("🔴 **%s** left the game", username))
}

func (b *Bridge) relayDeath() {
	// respawn делает сама игровая сессия, реконнект не нужен
	b.toBridge("💀 Bot died and will attempt to respawn")
}

func (b *Bridge) relayRain() {
	b.toBridge("🌧️ It started raining in the Minecraft world")
}
