package ws

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/internal/net/proto"
	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// Client is the player-side connection to the waypoint server. Its
// send methods are the request sink the interaction detector writes
// to; waypoint lists pushed by the server are delivered to the
// onWaypoints callback from the client's read loop.
type Client struct {
	conn        *websocket.Conn
	mu          sync.Mutex
	onWaypoints func([]marker.Waypoint)
	log         zerolog.Logger
	done        chan struct{}
}

// Dial connects to the waypoint endpoint of the server at serverURL
// as the given player. Both ws:// and http:// forms are accepted. The
// callback may be nil when the caller has no use for list refreshes.
func Dial(serverURL, playerID string, onWaypoints func([]marker.Waypoint), log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("ws: parsing server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"id": {playerID}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ws: dialing %s: %w", u.String(), err)
	}

	c := &Client{
		conn:        conn,
		onWaypoints: onWaypoints,
		log:         log,
		done:        make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// SendWaypointRequest asks the server to place a marker at pos.
func (c *Client) SendWaypointRequest(pos marker.Position, app marker.Appearance) error {
	data, err := proto.EncodeWaypointRequest(proto.WaypointRequest{Position: pos, Appearance: app})
	if err != nil {
		return err
	}
	return c.send(data)
}

// SendRemoveRequest asks the server to delete the sender's waypoint
// nearest to pos.
func (c *Client) SendRemoveRequest(pos marker.Position) error {
	data, err := proto.EncodeWaypointRemove(proto.WaypointRemove{Position: pos})
	if err != nil {
		return err
	}
	return c.send(data)
}

// Close shuts the connection down and waits for the read loop to stop.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *Client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		kind, err := proto.MessageKind(payload)
		if err != nil {
			c.log.Debug().Err(err).Msg("discarding malformed frame")
			continue
		}
		if kind != proto.MsgWaypointList {
			c.log.Debug().Uint8("type", uint8(kind)).Msg("unexpected message type")
			continue
		}

		list, err := proto.DecodeWaypointList(payload)
		if err != nil {
			c.log.Debug().Err(err).Msg("discarding malformed waypoint list")
			continue
		}
		if c.onWaypoints != nil {
			c.onWaypoints(list.Waypoints)
		}
	}
}
