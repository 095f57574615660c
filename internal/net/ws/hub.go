package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/internal/net/proto"
	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// WaypointSource lists the waypoints owned by a player, used to build
// the refresh frames pushed after a change.
type WaypointSource interface {
	OwnedBy(playerID string) []marker.Waypoint
}

// Hub tracks connected player sessions and pushes waypoint list
// refreshes to them. It implements the change notifications emitted by
// the waypoint authority.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*session
	source   WaypointSource
	log      zerolog.Logger
}

// NewHub creates a hub reading refresh payloads from the given source.
func NewHub(source WaypointSource, log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*session),
		source:   source,
		log:      log,
	}
}

// Subscribe registers the player's connection. A previous session for
// the same player is closed and replaced.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) *session {
	sess := &session{conn: conn}

	h.mu.Lock()
	prev := h.sessions[playerID]
	h.sessions[playerID] = sess
	h.mu.Unlock()

	if prev != nil {
		prev.close()
	}
	return sess
}

// Unsubscribe drops the session if it is still the player's current
// one. A session replaced by a reconnect is left alone.
func (h *Hub) Unsubscribe(playerID string, sess *session) {
	h.mu.Lock()
	if h.sessions[playerID] == sess {
		delete(h.sessions, playerID)
	}
	h.mu.Unlock()
	sess.close()
}

// NotifyWaypointsChanged pushes the player's current waypoint list to
// their connection. Disconnected players are skipped.
func (h *Hub) NotifyWaypointsChanged(playerID string) {
	h.mu.Lock()
	sess := h.sessions[playerID]
	h.mu.Unlock()

	if sess == nil {
		return
	}
	h.push(playerID, sess)
}

// RebuildRenderedComponents refreshes every connected player's list so
// their rendered map layers drop stale entries.
func (h *Hub) RebuildRenderedComponents() {
	h.mu.Lock()
	sessions := make(map[string]*session, len(h.sessions))
	for id, sess := range h.sessions {
		sessions[id] = sess
	}
	h.mu.Unlock()

	for id, sess := range sessions {
		h.push(id, sess)
	}
}

func (h *Hub) push(playerID string, sess *session) {
	data, err := proto.EncodeWaypointList(proto.WaypointList{Waypoints: h.source.OwnedBy(playerID)})
	if err != nil {
		h.log.Error().Err(err).Str("player", playerID).Msg("failed to encode waypoint list")
		return
	}
	if err := sess.write(data); err != nil {
		h.log.Debug().Err(err).Str("player", playerID).Msg("failed to push waypoint list")
	}
}
