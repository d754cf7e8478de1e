package mcagent

import (
	"time"

	"github.com/gorilla/websocket"
)

// ========================= low-level =========================

// dial с pong-handler'ом, дедлайнами и запуском пингов
func (c *Client) dialAndSetup() (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.cfg.AgentURL, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(4 << 20)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	c.startPing(conn)

	return conn, nil
}

// безопасно закрыть текущее соединение
func (c *Client) closeConn() {
	c.stopPing()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = c.conn.Close()
	}
}

func (c *Client) startPing(conn *websocket.Conn) {
	c.stopPing() // на всякий
	c.pingMu.Lock()
	c.pingStop = make(chan struct{})
	stop := c.pingStop
	c.pingMu.Unlock()

	go func() {
		t := time.NewTicker(20 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				c.wmu.Lock()
				_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
				c.wmu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// stopPing идемпотентен: вызывается и из Quit, и из readLoop.
func (c *Client) stopPing() {
	c.pingMu.Lock()
	defer c.pingMu.Unlock()
	if c.pingStop != nil {
		close(c.pingStop)
		c.pingStop = nil
	}
}
