package mcagent

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// state — зеркало игрового состояния, которое ведёт агент. Обновляется
// только из readLoop; читается из любых горутин.
type state struct {
	mu         sync.RWMutex
	username   string
	navigation bool
	spawned    bool
	players    map[string]Player
	entities   map[int]Entity
	timeOfDay  int
	raining    bool
	self       *mgl64.Vec3
}

func newState(username string) *state {
	return &state{
		username: username,
		players:  make(map[string]Player),
		entities: make(map[int]Entity),
	}
}

func (st *state) applyHello(h helloData) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if h.Username != "" {
		st.username = h.Username
	}
	st.navigation = h.Navigation
}

func (st *state) setSpawned(v bool) {
	st.mu.Lock()
	st.spawned = v
	st.mu.Unlock()
}

func (st *state) applySnapshot(s snapshotData) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s.Players != nil {
		st.players = s.Players
	}
	st.timeOfDay = s.TimeOfDay
	st.raining = s.Raining
	if s.Self != nil {
		v := *s.Self
		st.self = &v
	}
}

func (st *state) applyEntity(e Entity) {
	st.mu.Lock()
	st.entities[e.ID] = e
	st.mu.Unlock()
}

func (st *state) removeEntity(id int) {
	st.mu.Lock()
	delete(st.entities, id)
	st.mu.Unlock()
}

func (st *state) setRaining(v bool) {
	st.mu.Lock()
	st.raining = v
	st.mu.Unlock()
}

// ========================= чтение =========================

func (st *state) Username() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.username
}

func (st *state) Spawned() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.spawned
}

func (st *state) Navigation() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.navigation
}

func (st *state) Players() map[string]Player {
	st.mu.RLock()
	defer st.mu.RUnlock()
	cp := make(map[string]Player, len(st.players))
	for k, v := range st.players {
		cp[k] = v
	}
	return cp
}

func (st *state) PlayerPosition(name string) (mgl64.Vec3, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	p, ok := st.players[name]
	if !ok || p.Position == nil {
		return mgl64.Vec3{}, false
	}
	return *p.Position, true
}

func (st *state) Self() (mgl64.Vec3, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.self == nil {
		return mgl64.Vec3{}, false
	}
	return *st.self, true
}

func (st *state) TimeOfDay() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.timeOfDay
}

func (st *state) Raining() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.raining
}

func (st *state) Entities() []Entity {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Entity, 0, len(st.entities))
	for _, e := range st.entities {
		out = append(out, e)
	}
	return out
}
