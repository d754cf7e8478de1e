package bot

import "testing"

func TestRelayChatSuppressesOwnEcho(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)

	b.relayChat("bridgebot", "[Discord] alice: hi")

	if got := dc.sentTexts(); len(got) != 0 {
		t.Errorf("own chat echoed back to discord: %v", got)
	}
}

// Сервер может переименовать аватара (дедупликация ников) — подавление
// сверяется с именем из hello, а не из конфига.
func TestRelaySuppressionUsesServerAssignedName(t *testing.T) {
	s := newFakeSession()
	s.username = "bridgebot1" // сервер выдал не то имя, что в конфиге
	b, dc := newTestBridge(s)
	connectAndSpawn(b, s)

	b.relayChat("bridgebot1", "[Discord] alice: hi")
	b.relayJoin("bridgebot1")
	b.relayLeave("bridgebot1")

	if got := dc.sentTexts(); len(got) != 0 {
		t.Errorf("renamed bot echoed back to discord: %v", got)
	}
}

func TestRelayChatFormatsPlayerMessage(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)

	b.relayChat("steve", "anyone home?")

	got := dc.sentTexts()
	if len(got) != 1 || got[0] != "**steve**: anyone home?" {
		t.Errorf("unexpected relay output: %v", got)
	}
}

func TestRelayChatServerMessage(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)

	b.relayChat("", "Server restart in 5 minutes")

	got := dc.sentTexts()
	if len(got) != 1 || got[0] != "**[SERVER]** Server restart in 5 minutes" {
		t.Errorf("unexpected server relay output: %v", got)
	}
}

func TestRelayJoinLeave(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)

	b.relayJoin("bridgebot") // собственный вход не транслируется
	b.relayJoin("alex")
	b.relayLeave("bridgebot")
	b.relayLeave("alex")

	got := dc.sentTexts()
	want := []string{
		"🟢 **alex** joined the game",
		"🔴 **alex** left the game",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d relays, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("relay %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRelayDeathAndRain(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)

	b.relayDeath()
	b.relayRain()

	got := dc.sentTexts()
	if len(got) != 2 {
		t.Fatalf("expected 2 relays, got %v", got)
	}
	if got[0] != "💀 Bot died and will attempt to respawn" {
		t.Errorf("death relay: %q", got[0])
	}
	if got[1] != "🌧️ It started raining in the Minecraft world" {
		t.Errorf("rain relay: %q", got[1])
	}
}
