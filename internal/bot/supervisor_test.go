package bot

import (
	"errors"
	"strings"
	"testing"
)

func TestConnectAndSpawnGoesOnline(t *testing.T) {
	s := newFakeSession()
	s.navigation = true
	b, dc := newTestBridge(s)

	connectAndSpawn(b, s)

	if !b.Online() {
		t.Fatal("bridge should be online after spawn")
	}
	embeds := dc.sentEmbeds()
	if len(embeds) != 1 || embeds[0].embed.Title != "Server Connection Established" {
		t.Errorf("expected connect banner, got %+v", embeds)
	}
	if len(s.movements) != 1 {
		t.Errorf("movement defaults not applied: %d calls", len(s.movements))
	}
}

func TestSpawnWithoutNavigationSkipsMovement(t *testing.T) {
	s := newFakeSession()
	b, _ := newTestBridge(s)

	connectAndSpawn(b, s)

	if len(s.movements) != 0 {
		t.Errorf("movement should not be configured without navigation, got %d calls", len(s.movements))
	}
}

// Несколько сигналов отказа подряд дают ровно одно уведомление и один
// запланированный реконнект.
func TestFailureSchedulesSingleReconnect(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)
	connectAndSpawn(b, s)

	s.fireError(errors.New("read tcp: connection reset"))
	s.fireEnd()
	s.fireKicked("You have been kicked")

	var failures int
	for _, text := range dc.sentTexts() {
		if strings.Contains(text, "Connection error") {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly one failure notification, got %d", failures)
	}
	// kicked-эмбед тоже не должен был пройти: реконнект уже запланирован
	for _, e := range dc.sentEmbeds() {
		if e.embed.Title == "Disconnected from Server" {
			t.Error("kicked embed sent while reconnect already pending")
		}
	}

	b.mu.Lock()
	pending, online := b.pendingReconnect, b.online
	b.mu.Unlock()
	if !pending {
		t.Error("reconnect should be pending")
	}
	if online {
		t.Error("bridge should be offline after failure")
	}
}

func TestStaleSessionFailureIgnored(t *testing.T) {
	s1 := newFakeSession()
	s2 := newFakeSession()
	b, dc := newTestBridge(s1, s2)

	connectAndSpawn(b, s1)
	b.Connect() // заменяет s1 на s2
	s2.fireSpawn()

	if s1.quitCount() != 1 {
		t.Errorf("replaced session should be quit once, got %d", s1.quitCount())
	}

	before := len(dc.sentTexts())
	s1.fireError(errors.New("late failure from old session"))

	if got := len(dc.sentTexts()); got != before {
		t.Errorf("stale session failure produced a notification: %d -> %d", before, got)
	}
	if !b.Online() {
		t.Error("bridge should stay online: the failure came from a replaced session")
	}
}

func TestSpawnClearsPendingReconnect(t *testing.T) {
	s := newFakeSession()
	b, _ := newTestBridge(s)
	connectAndSpawn(b, s)

	s.fireError(errors.New("boom"))
	b.mu.Lock()
	pending := b.pendingReconnect
	b.mu.Unlock()
	if !pending {
		t.Fatal("failure should schedule a reconnect")
	}

	s.fireSpawn()
	b.mu.Lock()
	pending, online := b.pendingReconnect, b.online
	b.mu.Unlock()
	if pending {
		t.Error("spawn should clear the pending reconnect")
	}
	if !online {
		t.Error("spawn should mark the bridge online")
	}
}

func TestReconnectSkippedWhenSessionRecovered(t *testing.T) {
	s := newFakeSession()
	b, _ := newTestBridge(s)
	connectAndSpawn(b, s)

	s.fireError(errors.New("boom"))
	s.fireSpawn() // сессия ожила до срабатывания таймера

	chatsBefore := s.quitCount()
	b.reconnect() // имитация срабатывания таймера
	if s.quitCount() != chatsBefore {
		t.Error("reconnect should be a no-op when the session recovered")
	}
	if !b.Online() {
		t.Error("bridge should remain online")
	}
}

func TestConnectFailureNotifiesAndSchedules(t *testing.T) {
	s := newFakeSession()
	s.connectErr = errors.New("dial agent: connection refused")
	b, dc := newTestBridge(s)

	b.Connect()

	var found bool
	for _, text := range dc.sentTexts() {
		if strings.Contains(text, "Connection error") && strings.Contains(text, "reconnect in 30 seconds") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected connection error notification, got %v", dc.sentTexts())
	}
	b.mu.Lock()
	pending := b.pendingReconnect
	sess := b.sess
	b.mu.Unlock()
	if !pending {
		t.Error("reconnect should be pending after a failed connect")
	}
	if sess != nil {
		t.Error("failed session should not stay registered")
	}
}

// Штатное отключение: quit ровно один раз, повтор — ErrOffline.
func TestDisconnectGameQuitsOnce(t *testing.T) {
	s := newFakeSession()
	b, _ := newTestBridge(s)
	connectAndSpawn(b, s)

	if err := b.DisconnectGame(); err != nil {
		t.Fatalf("first disconnect: %v", err)
	}
	if s.quitCount() != 1 {
		t.Errorf("expected one quit, got %d", s.quitCount())
	}

	if err := b.DisconnectGame(); !errors.Is(err, ErrOffline) {
		t.Errorf("second disconnect should return ErrOffline, got %v", err)
	}
	if s.quitCount() != 1 {
		t.Errorf("second disconnect must not quit again, got %d quits", s.quitCount())
	}
}

func TestDisconnectGameWhileOffline(t *testing.T) {
	s := newFakeSession()
	b, _ := newTestBridge(s)

	if err := b.DisconnectGame(); !errors.Is(err, ErrOffline) {
		t.Errorf("expected ErrOffline without a session, got %v", err)
	}
}

func TestKickedSendsDisconnectEmbed(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)
	connectAndSpawn(b, s)

	s.fireKicked("Banned by an operator")

	var found bool
	for _, e := range dc.sentEmbeds() {
		if e.embed.Title == "Disconnected from Server" && strings.Contains(e.embed.Description, "Banned by an operator") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected disconnect embed with kick reason, got %+v", dc.sentEmbeds())
	}
}

func TestPresenceFollowsConnectionState(t *testing.T) {
	s := newFakeSession()
	b, dc := newTestBridge(s)
	connectAndSpawn(b, s)
	s.fireEnd()

	dc.mu.Lock()
	presence := append([]bool(nil), dc.presence...)
	dc.mu.Unlock()
	if len(presence) != 2 || presence[0] != true || presence[1] != false {
		t.Errorf("expected presence [true false], got %v", presence)
	}
}
