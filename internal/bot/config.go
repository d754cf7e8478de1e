package bot

import (
	"os"
	"strconv"
	"strings"
)

// Config — конфигурация моста. Все значения берутся из окружения с
// фиксированными дефолтами; .env подхватывается в main через godotenv.
type Config struct {
	// игровой сервер
	MCHost     string
	MCPort     int
	MCUsername string
	MCPassword string
	MCAuth     string
	MCVersion  string

	// sidecar-агент mineflayer
	AgentURL string

	// discord
	DiscordToken  string
	BridgeChannel string
	AllowedIDs    []string

	// keepalive
	HTTPPort    string
	SelfPingURL string
}

func FromEnv() Config {
	cfg := Config{
		MCHost:        getenv("MC_HOST", "in02.servoid.pro"),
		MCPort:        getenvInt("MC_PORT", 8641),
		MCUsername:    getenv("MC_USERNAME", "bridge"),
		MCPassword:    os.Getenv("MC_PASSWORD"),
		MCAuth:        getenv("MC_AUTH", "microsoft"),
		MCVersion:     os.Getenv("MC_VERSION"),
		AgentURL:      getenv("MC_AGENT_URL", "ws://127.0.0.1:3001"),
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		BridgeChannel: getenv("MC_CHAT_CHANNEL", "minecraft-chat"),
		HTTPPort:      getenv("PORT", "8080"),
		SelfPingURL:   os.Getenv("SELF_PING_URL"),
	}
	for _, id := range strings.Split(os.Getenv("MC_ALLOWED_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.AllowedIDs = append(cfg.AllowedIDs, id)
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
