package mcagent

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/EgorLis/mcbridge/pkg/logger"
)

// readLoop читает кадры агента до первой ошибки. Реконнекта здесь нет:
// мёртвая сессия заменяется супервизором целиком.
func (c *Client) readLoop(ctx context.Context) {
	done := make(chan struct{})
	defer func() {
		close(done)
		wasClosed := c.closed.Swap(true)
		c.failPending(errors.New("connection lost"))
		if !wasClosed {
			c.st.setSpawned(false)
			c.closeConn()
			if h := c.handlers().End; h != nil {
				h()
			}
		}
	}()

	// закрыть по отмене контекста; done не даёт сторожу пережить сессию
	go func() {
		select {
		case <-ctx.Done():
			c.closeConn()
		case <-done:
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				if h := c.handlers().Error; h != nil {
					h(err)
				}
			}
			return
		}

		var env envelope
		if uerr := json.Unmarshal(data, &env); uerr != nil {
			logger.Log.WithError(uerr).Warn("mcagent: bad frame")
			continue
		}

		switch env.Type {
		case "response":
			c.mu.Lock()
			cb, ok := c.cbs[env.Seq]
			if ok {
				delete(c.cbs, env.Seq)
			}
			c.mu.Unlock()
			if ok && cb != nil {
				cb(env)
			}
		case "event":
			c.dispatchEvent(env)
		}
	}
}

// dispatchEvent обновляет зеркало состояния и поднимает подписанный
// обработчик.
func (c *Client) dispatchEvent(env envelope) {
	ev := c.handlers()

	switch env.Event {
	case "hello":
		var d helloData
		if json.Unmarshal(env.Data, &d) == nil {
			c.st.applyHello(d)
		}
	case "spawn":
		c.st.setSpawned(true)
		if ev.Spawn != nil {
			ev.Spawn()
		}
	case "chat":
		var d chatData
		if json.Unmarshal(env.Data, &d) != nil {
			return
		}
		if ev.Chat != nil {
			ev.Chat(d.Username, d.Message)
		}
	case "playerJoined":
		var d playerData
		if json.Unmarshal(env.Data, &d) != nil {
			return
		}
		if ev.PlayerJoined != nil {
			ev.PlayerJoined(d.Username)
		}
	case "playerLeft":
		var d playerData
		if json.Unmarshal(env.Data, &d) != nil {
			return
		}
		if ev.PlayerLeft != nil {
			ev.PlayerLeft(d.Username)
		}
	case "death":
		if ev.Death != nil {
			ev.Death()
		}
	case "kicked":
		var d kickedData
		_ = json.Unmarshal(env.Data, &d)
		c.st.setSpawned(false)
		if ev.Kicked != nil {
			ev.Kicked(d.Reason)
		}
	case "rain":
		c.st.setRaining(true)
		if ev.Rain != nil {
			ev.Rain()
		}
	case "error":
		var d errorData
		_ = json.Unmarshal(env.Data, &d)
		if ev.Error != nil {
			ev.Error(errors.New(d.Message))
		}
	case "end":
		c.st.setSpawned(false)
		if ev.End != nil {
			ev.End()
		}
	case "entitySpawn":
		var e Entity
		if json.Unmarshal(env.Data, &e) != nil {
			return
		}
		c.st.applyEntity(e)
		if ev.EntitySpawn != nil {
			ev.EntitySpawn(e)
		}
	case "entityMoved":
		var e Entity
		if json.Unmarshal(env.Data, &e) != nil {
			return
		}
		c.st.applyEntity(e)
		if ev.EntityMoved != nil {
			ev.EntityMoved(e)
		}
	case "entityGone":
		var d entityGoneData
		if json.Unmarshal(env.Data, &d) == nil {
			c.st.removeEntity(d.ID)
		}
	case "snapshot":
		var d snapshotData
		if json.Unmarshal(env.Data, &d) == nil {
			c.st.applySnapshot(d)
		}
	default:
		logger.Log.WithField("event", env.Event).Debug("mcagent: unknown event")
	}
}
