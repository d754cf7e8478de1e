package bot

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"MC_HOST", "MC_PORT", "MC_USERNAME", "MC_AUTH",
		"MC_AGENT_URL", "MC_CHAT_CHANNEL", "PORT", "MC_ALLOWED_IDS",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.MCHost != "in02.servoid.pro" || cfg.MCPort != 8641 {
		t.Errorf("server default = %s:%d", cfg.MCHost, cfg.MCPort)
	}
	if cfg.MCUsername != "bridge" || cfg.MCAuth != "microsoft" {
		t.Errorf("account defaults = %s / %s", cfg.MCUsername, cfg.MCAuth)
	}
	if cfg.AgentURL != "ws://127.0.0.1:3001" {
		t.Errorf("AgentURL = %s", cfg.AgentURL)
	}
	if cfg.BridgeChannel != "minecraft-chat" {
		t.Errorf("BridgeChannel = %s", cfg.BridgeChannel)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %s", cfg.HTTPPort)
	}
	if len(cfg.AllowedIDs) != 0 {
		t.Errorf("AllowedIDs = %v", cfg.AllowedIDs)
	}
}

func TestFromEnvOverridesAndAllowList(t *testing.T) {
	t.Setenv("MC_HOST", "play.example.org")
	t.Setenv("MC_PORT", "25565")
	t.Setenv("MC_ALLOWED_IDS", "100, 200 ,,300")

	cfg := FromEnv()

	if cfg.MCHost != "play.example.org" || cfg.MCPort != 25565 {
		t.Errorf("server = %s:%d", cfg.MCHost, cfg.MCPort)
	}
	want := []string{"100", "200", "300"}
	if len(cfg.AllowedIDs) != len(want) {
		t.Fatalf("AllowedIDs = %v", cfg.AllowedIDs)
	}
	for i := range want {
		if cfg.AllowedIDs[i] != want[i] {
			t.Errorf("AllowedIDs[%d] = %q, want %q", i, cfg.AllowedIDs[i], want[i])
		}
	}
}

func TestFromEnvBadPortFallsBack(t *testing.T) {
	t.Setenv("MC_PORT", "not-a-number")

	if cfg := FromEnv(); cfg.MCPort != 8641 {
		t.Errorf("MCPort = %d, want default", cfg.MCPort)
	}
}
