package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EgorLis/mcbridge/internal/mcagent"
)

// Презентация: шаблоны embed-сообщений. Логики тут нет.

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
	colorBlue  = 0x0099ff
)

func connectEmbed(host string, port int) Embed {
	return Embed{
		Title:       "Server Connection Established",
		Description: fmt.Sprintf("Connected to %s:%d", host, port),
		Color:       colorGreen,
		Timestamp:   true,
	}
}

func disconnectEmbed(reason string) Embed {
	return Embed{
		Title:       "Disconnected from Server",
		Description: fmt.Sprintf("Reason: %s", reason),
		Color:       colorRed,
		Timestamp:   true,
	}
}

func statusEmbed(host string, port int, online bool, players map[string]mcagent.Player) Embed {
	names := playerNames(players)
	status := "🔴 Offline"
	color := colorRed
	if online {
		status = "🟢 Online"
		color = colorGreen
	}
	roster := "No players online"
	if len(names) > 0 {
		roster = strings.Join(names, ", ")
	}
	return Embed{
		Title: "Minecraft Server Status",
		Color: color,
		Fields: []EmbedField{
			{Name: "Server", Value: fmt.Sprintf("%s:%d", host, port)},
			{Name: "Status", Value: status},
			{Name: fmt.Sprintf("Players Online (%d)", len(names)), Value: roster},
		},
		Timestamp: true,
	}
}

func listEmbed(players map[string]mcagent.Player) Embed {
	names := playerNames(players)
	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("%s - Ping: %dms", name, players[name].Ping))
	}
	desc := "No players online"
	if len(rows) > 0 {
		desc = strings.Join(rows, "\n")
	}
	return Embed{
		Title:       "Online Players",
		Description: desc,
		Color:       colorGreen,
		Timestamp:   true,
	}
}

func timeEmbed(clock string, day bool) Embed {
	phase := "🌙 Night"
	if day {
		phase = "☀️ Day"
	}
	return Embed{
		Title:       "Minecraft Server Time",
		Description: fmt.Sprintf("Current time: %s", clock),
		Color:       colorGreen,
		Fields:      []EmbedField{{Name: "Day/Night", Value: phase}},
	}
}

func weatherEmbed(raining bool) Embed {
	weather := "☀️ Clear"
	if raining {
		weather = "🌧️ Raining"
	}
	return Embed{
		Title:       "Minecraft Server Weather",
		Description: fmt.Sprintf("Current weather: %s", weather),
		Color:       colorGreen,
	}
}

// tellEmbed оформляет сообщение так, будто оно пришло из игры.
func tellEmbed(author, text string) Embed {
	return Embed{
		Description: text,
		Color:       colorBlue,
		Footer:      fmt.Sprintf("via %s", author),
		Timestamp:   true,
	}
}

func rulesEmbed() Embed {
	return Embed{
		Title: "Server Rules",
		Color: colorBlue,
		Description: strings.Join([]string{
			"1. No griefing or stealing.",
			"2. Be respectful in chat.",
			"3. No hacks, x-ray or exploits.",
			"4. Keep the spawn area clean.",
			"5. PvP only by mutual agreement.",
		}, "\n"),
		Footer: "Oggy's House SMP",
	}
}

func helpEmbed() Embed {
	return Embed{
		Title:       "Minecraft Discord Bot Commands",
		Color:       colorBlue,
		Description: "Available commands:",
		Fields: []EmbedField{
			{Name: "!mc status", Value: "Show server status and online players"},
			{Name: "!mc list", Value: "Show detailed list of online players"},
			{Name: "!mc say <message>", Value: "Send a message to the Minecraft server"},
			{Name: "!mc tell <message>", Value: "Post a message into the bridge channel (works anywhere)"},
			{Name: "!mc time", Value: "Show the current time in the Minecraft world"},
			{Name: "!mc weather", Value: "Show the current weather in the Minecraft world"},
			{Name: "!mc follow <player> / stopfollow", Value: "Follow a player / stop following"},
			{Name: "!mc comehere <player>", Value: "Send the bot to a player's position"},
			{Name: "!mc attack <mob>", Value: "Attack the nearest matching mob"},
			{Name: "!mc autoattack <on|off> [radius]", Value: "Toggle automatic defense"},
			{Name: "!mc setviewdistance <2..32>", Value: "Set the bot's view distance"},
			{Name: "!mc rules", Value: "Show the server rules"},
			{Name: "!mc help", Value: "Show this help message"},
			{Name: "Admin Commands", Value: "!mc cmd <command> - Execute a command on the server\n" +
				"!mc tp <player1> <player2> - Teleport player1 to player2\n" +
				"!mc kick <player> [reason] - Kick a player\n" +
				"!mc restart - Restart the bot connection\n" +
				"!mc disconnect - Disconnect from the server"},
		},
		Footer: "Oggy's House SMP",
	}
}

func playerNames(players map[string]mcagent.Player) []string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
