package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dynbilliards/backend/internal/sim"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client is one attached renderer connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	runToken string
	send     chan []byte
}

// Serve upgrades the connection and attaches it to the run's room. The
// initial snapshot is sent immediately so the renderer can draw before the
// first tick arrives.
func Serve(hub *Hub, manager *sim.Manager, w http.ResponseWriter, r *http.Request, runToken string) error {
	snap, err := manager.Snapshot(runToken)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		runToken: runToken,
		send:     make(chan []byte, 64),
	}
	hub.register(client)

	if data, err := json.Marshal(Message{Type: "snapshot", Data: snap}); err == nil {
		client.send <- data
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump drains the connection. Renderers are pull-only; anything they
// send is ignored, but the read loop is what notices a dropped connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for run %s: %v", c.runToken, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
