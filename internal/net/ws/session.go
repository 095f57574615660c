// Package ws carries waypoint traffic over websocket connections. The
// server side upgrades player connections, decodes request frames and
// feeds them to the waypoint authority; the client side implements the
// request sink the interaction detector writes to.
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// session serializes writes to a single player's connection.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *session) close() {
	s.conn.Close()
}
