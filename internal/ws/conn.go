package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// connWriter is the write surface of a websocket connection.
type connWriter interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Conn wraps a websocket connection so that writes are serialized. State
// broadcasts and error replies can arrive from different goroutines, and the
// underlying connection does not tolerate concurrent writers.
type Conn struct {
	raw *websocket.Conn
	w   connWriter

	writeMu sync.Mutex
}

func NewConn(c *websocket.Conn) *Conn {
	return &Conn{raw: c, w: c}
}

func (c *Conn) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.w.WriteJSON(v)
}

func (c *Conn) WriteMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.w.WriteMessage(messageType, data)
}

func (c *Conn) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.w.Close()
}

// ReadMessage delegates to the underlying connection. Reads have a single
// owner, the connection's message loop, and need no locking.
func (c *Conn) ReadMessage() (messageType int, p []byte, err error) {
	return c.raw.ReadMessage()
}

func (c *Conn) Params(key string, defaultValue ...string) string {
	return c.raw.Params(key, defaultValue...)
}

func (c *Conn) Locals(key string) interface{} {
	return c.raw.Locals(key)
}
