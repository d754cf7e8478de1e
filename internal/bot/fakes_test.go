package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/go-gl/mathgl/mgl64"
)

// fakeSession — управляемая из теста игровая сессия.
type fakeSession struct {
	mu sync.Mutex

	connectErr error
	ev         mcagent.Events

	spawned       bool
	navigation    bool
	hasEntityHook func() // вызывается из HasEntity вне блокировки
	username      string
	players       map[string]mcagent.Player
	entities      []mcagent.Entity
	self          *mgl64.Vec3
	timeOfDay     int
	raining       bool

	chats        []string
	quits        int
	goals        []*mcagent.Goal
	movements    []mcagent.Movement
	attacks      []int
	looks        []mgl64.Vec3
	viewDistance int
	gotoCb       func(mcagent.GotoResult, error)
}

var _ mcagent.Session = (*fakeSession)(nil)

func newFakeSession() *fakeSession {
	return &fakeSession{
		username: "bridgebot",
		players:  map[string]mcagent.Player{},
	}
}

func (f *fakeSession) Connect(ctx context.Context) error { return f.connectErr }

func (f *fakeSession) Quit() {
	f.mu.Lock()
	f.quits++
	f.spawned = false
	f.mu.Unlock()
}

func (f *fakeSession) Subscribe(ev mcagent.Events) {
	f.mu.Lock()
	f.ev = ev
	f.mu.Unlock()
}

func (f *fakeSession) events() mcagent.Events {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ev
}

// fireSpawn имитирует событие spawn от агента.
func (f *fakeSession) fireSpawn() {
	f.mu.Lock()
	f.spawned = true
	f.mu.Unlock()
	if h := f.events().Spawn; h != nil {
		h()
	}
}

func (f *fakeSession) fireError(err error) {
	if h := f.events().Error; h != nil {
		h(err)
	}
}

func (f *fakeSession) fireEnd() {
	f.mu.Lock()
	f.spawned = false
	f.mu.Unlock()
	if h := f.events().End; h != nil {
		h()
	}
}

func (f *fakeSession) fireKicked(reason string) {
	f.mu.Lock()
	f.spawned = false
	f.mu.Unlock()
	if h := f.events().Kicked; h != nil {
		h(reason)
	}
}

func (f *fakeSession) Username() string { return f.username }

func (f *fakeSession) HasEntity() bool {
	f.mu.Lock()
	spawned := f.spawned
	hook := f.hasEntityHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return spawned
}

func (f *fakeSession) HasNavigation() bool { return f.navigation }

func (f *fakeSession) Chat(text string) error {
	f.mu.Lock()
	f.chats = append(f.chats, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Command(raw string) error { return f.Chat("/" + raw) }

func (f *fakeSession) Players() map[string]mcagent.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(map[string]mcagent.Player, len(f.players))
	for k, v := range f.players {
		cp[k] = v
	}
	return cp
}

func (f *fakeSession) PlayerPosition(name string) (mgl64.Vec3, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[name]
	if !ok || p.Position == nil {
		return mgl64.Vec3{}, false
	}
	return *p.Position, true
}

func (f *fakeSession) Position() (mgl64.Vec3, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.self == nil {
		return mgl64.Vec3{}, false
	}
	return *f.self, true
}

func (f *fakeSession) TimeOfDay() int { return f.timeOfDay }
func (f *fakeSession) Raining() bool  { return f.raining }

func (f *fakeSession) Entities() []mcagent.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mcagent.Entity(nil), f.entities...)
}

func (f *fakeSession) SetMovement(m mcagent.Movement) error {
	f.mu.Lock()
	f.movements = append(f.movements, m)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) SetGoal(g *mcagent.Goal) error {
	f.mu.Lock()
	f.goals = append(f.goals, g)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Goto(g mcagent.Goal, cb func(mcagent.GotoResult, error)) error {
	f.mu.Lock()
	f.gotoCb = cb
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) LookAt(p mgl64.Vec3) error {
	f.mu.Lock()
	f.looks = append(f.looks, p)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Attack(entityID int) error {
	f.mu.Lock()
	f.attacks = append(f.attacks, entityID)
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) SetViewDistance(n int) error {
	f.mu.Lock()
	f.viewDistance = n
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) chatLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chats...)
}

func (f *fakeSession) quitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quits
}

func (f *fakeSession) goalLog() []*mcagent.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mcagent.Goal(nil), f.goals...)
}

func (f *fakeSession) attackLog() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.attacks...)
}

func playerAt(x, y, z float64, ping int) mcagent.Player {
	pos := mgl64.Vec3{x, y, z}
	return mcagent.Player{Ping: ping, Position: &pos}
}

// fakeMessenger записывает всё, что мост отправляет в чат-платформу.
type fakeMessenger struct {
	mu sync.Mutex

	bridgeID string
	nextID   int

	sends    []sentMessage
	embeds   []sentEmbed
	reacts   []string
	deletes  []string
	presence []bool
}

type sentMessage struct {
	channelID string
	text      string
}

type sentEmbed struct {
	channelID string
	embed     Embed
}

var _ Messenger = (*fakeMessenger)(nil)

func (f *fakeMessenger) ChannelID(name string) string { return f.bridgeID }

func (f *fakeMessenger) Send(channelID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sends = append(f.sends, sentMessage{channelID: channelID, text: text})
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakeMessenger) SendEmbed(channelID string, e Embed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.embeds = append(f.embeds, sentEmbed{channelID: channelID, embed: e})
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakeMessenger) React(channelID, messageID, emoji string) error {
	f.mu.Lock()
	f.reacts = append(f.reacts, emoji)
	f.mu.Unlock()
	return nil
}

func (f *fakeMessenger) Delete(channelID, messageID string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, messageID)
	f.mu.Unlock()
	return nil
}

func (f *fakeMessenger) SetPresence(online bool) {
	f.mu.Lock()
	f.presence = append(f.presence, online)
	f.mu.Unlock()
}

func (f *fakeMessenger) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sends))
	for _, s := range f.sends {
		out = append(out, s.text)
	}
	return out
}

func (f *fakeMessenger) sentEmbeds() []sentEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmbed(nil), f.embeds...)
}

func (f *fakeMessenger) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletes)
}

// ========================= сборка моста =========================

const testBridgeChannel = "chan-bridge"

// newTestBridge собирает мост с фейками и гигантскими таймерами, чтобы
// фоновые AfterFunc не срабатывали во время теста.
func newTestBridge(sessions ...*fakeSession) (*Bridge, *fakeMessenger) {
	dc := &fakeMessenger{bridgeID: testBridgeChannel}
	cfg := Config{
		MCHost:        "mc.test",
		MCPort:        25565,
		MCUsername:    "bridgebot",
		BridgeChannel: "minecraft-chat",
		AllowedIDs:    []string{"100"},
	}
	i := 0
	b := New(cfg, dc, func() mcagent.Session {
		s := sessions[i]
		if i < len(sessions)-1 {
			i++
		}
		return s
	})
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.reconnectDelay = time.Hour
	b.restartGrace = time.Hour
	b.gotoTimeout = time.Hour
	b.attackCooldown = time.Hour
	return b, dc
}

// connectAndSpawn — привести мост в состояние online.
func connectAndSpawn(b *Bridge, s *fakeSession) {
	b.Connect()
	s.fireSpawn()
}
