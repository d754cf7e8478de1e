package mcagent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client — сессия к агенту. Создаётся на каждое подключение заново;
// после потери соединения экземпляр не переиспользуется.
type Client struct {
	cfg Config

	conn   *websocket.Conn
	seq    uint32
	mu     sync.Mutex
	cbs    map[uint32]func(env envelope)
	closed atomic.Bool

	// запись в websocket сериализована
	wmu      sync.Mutex
	pingMu   sync.Mutex
	pingStop chan struct{}

	evMu sync.Mutex
	ev   Events

	st *state
}

var _ Session = (*Client)(nil)

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		cbs: make(map[uint32]func(envelope)),
		st:  newState(cfg.Username),
	}
}

// Subscribe регистрирует обработчики событий. Вызывать до Connect.
func (c *Client) Subscribe(ev Events) {
	c.evMu.Lock()
	c.ev = ev
	c.evMu.Unlock()
}

func (c *Client) handlers() Events {
	c.evMu.Lock()
	defer c.evMu.Unlock()
	return c.ev
}

// Connect устанавливает WebSocket к агенту, просит его открыть игровое
// соединение и запускает readLoop. Контекст можно отменить для мягкого
// завершения.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dialAndSetup()
	if err != nil {
		return fmt.Errorf("dial agent: %w", err)
	}
	c.conn = conn
	c.closed.Store(false)

	// первый запрос — параметры игрового подключения
	if err := c.send("connect", c.cfg, nil); err != nil {
		c.closeConn()
		return fmt.Errorf("connect request: %w", err)
	}

	go c.readLoop(ctx)
	return nil
}

// Quit — преднамеренное завершение сессии: агенту отправляется quit,
// соединение закрывается, события End больше не поднимаются.
func (c *Client) Quit() {
	if c.closed.Swap(true) {
		return
	}
	_ = c.send("quit", nil, nil)
	c.st.setSpawned(false)
	c.closeConn()
}

func (c *Client) nextSeq() uint32 {
	return atomic.AddUint32(&c.seq, 1)
}

// send — отправляет запрос агенту. Если cb != nil, он будет вызван по
// ответу с тем же seq.
func (c *Client) send(op string, data interface{}, cb func(envelope)) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	req := request{Op: op, Seq: c.nextSeq(), Data: data}

	if cb != nil {
		c.mu.Lock()
		c.cbs[req.Seq] = cb
		c.mu.Unlock()
	}

	c.wmu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	err := c.conn.WriteJSON(req)
	c.wmu.Unlock()

	if err != nil {
		// сеть упала между подготовкой и записью — подчищаем cb
		c.mu.Lock()
		delete(c.cbs, req.Seq)
		c.mu.Unlock()
		return err
	}
	return nil
}

// failPending — пометить все ожидающие колбэки ошибкой при потере
// соединения.
func (c *Client) failPending(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for seq, cb := range c.cbs {
		if cb != nil {
			cb(envelope{Type: "response", Seq: seq, OK: false, Error: err.Error()})
		}
		delete(c.cbs, seq)
	}
}
