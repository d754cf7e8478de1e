package mcagent

import (
	"encoding/json"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ========================= high-level API =========================

func (c *Client) Username() string { return c.st.Username() }

// HasEntity — жив ли игровой аватар (критерий "подключён" для команд и
// health-check'а).
func (c *Client) HasEntity() bool {
	return !c.closed.Load() && c.st.Spawned()
}

func (c *Client) HasNavigation() bool { return c.st.Navigation() }

func (c *Client) Chat(text string) error {
	return c.send("chat", chatRequest{Text: text}, nil)
}

// Command — серверная команда через чат: "/<raw>".
func (c *Client) Command(raw string) error {
	return c.Chat("/" + raw)
}

func (c *Client) Players() map[string]Player { return c.st.Players() }

func (c *Client) PlayerPosition(name string) (mgl64.Vec3, bool) {
	return c.st.PlayerPosition(name)
}

func (c *Client) Position() (mgl64.Vec3, bool) { return c.st.Self() }

func (c *Client) TimeOfDay() int { return c.st.TimeOfDay() }

func (c *Client) Raining() bool { return c.st.Raining() }

func (c *Client) Entities() []Entity { return c.st.Entities() }

func (c *Client) SetMovement(m Movement) error {
	return c.send("movement", m, nil)
}

// SetGoal — установить цель передвижения; nil снимает текущую цель.
func (c *Client) SetGoal(g *Goal) error {
	return c.send("goal", goalRequest{Goal: g}, nil)
}

// Goto — асинхронный переход к цели. cb вызывается ровно один раз: либо
// с результатом pathfinder-а, либо с ошибкой (в т.ч. при потере
// соединения до ответа).
func (c *Client) Goto(g Goal, cb func(GotoResult, error)) error {
	return c.send("goto", g, func(env envelope) {
		if cb == nil {
			return
		}
		if !env.OK {
			cb(GotoResult{}, errors.New(env.Error))
			return
		}
		var res GotoResult
		if err := json.Unmarshal(env.Data, &res); err != nil {
			cb(GotoResult{}, err)
			return
		}
		cb(res, nil)
	})
}

func (c *Client) LookAt(p mgl64.Vec3) error {
	return c.send("look", lookRequest{Position: p}, nil)
}

func (c *Client) Attack(entityID int) error {
	return c.send("attack", attackRequest{ID: entityID}, nil)
}

func (c *Client) SetViewDistance(n int) error {
	return c.send("viewDistance", viewDistanceRequest{Distance: n}, nil)
}

// данные запросов

type chatRequest struct {
	Text string `json:"text"`
}

type goalRequest struct {
	Goal *Goal `json:"goal"` // null = снять цель
}

type lookRequest struct {
	Position mgl64.Vec3 `json:"position"`
}

type attackRequest struct {
	ID int `json:"id"`
}

type viewDistanceRequest struct {
	Distance int `json:"distance"`
}
