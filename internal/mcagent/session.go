package mcagent

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
)

// Events — именованные подписки на события сессии. Регистрируются один
// раз на экземпляр сессии (до Connect); при реконнекте супервизор создаёт
// новую сессию и подписывается заново.
type Events struct {
	Spawn        func()
	Chat         func(username, message string)
	PlayerJoined func(username string)
	PlayerLeft   func(username string)
	Death        func()
	Kicked       func(reason string)
	Rain         func()
	End          func()
	Error        func(err error)
	EntitySpawn  func(e Entity)
	EntityMoved  func(e Entity)
}

// Session — способность "игровая сессия", которую потребляет бот.
// Реализуется *Client; в тестах подменяется фейком.
type Session interface {
	Connect(ctx context.Context) error
	Quit()
	Subscribe(ev Events)

	Username() string
	HasEntity() bool
	HasNavigation() bool

	Chat(text string) error
	Command(raw string) error

	Players() map[string]Player
	PlayerPosition(name string) (mgl64.Vec3, bool)
	Position() (mgl64.Vec3, bool)
	TimeOfDay() int
	Raining() bool
	Entities() []Entity

	SetMovement(m Movement) error
	SetGoal(g *Goal) error
	Goto(g Goal, cb func(GotoResult, error)) error
	LookAt(p mgl64.Vec3) error
	Attack(entityID int) error
	SetViewDistance(n int) error
}
