package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/internal/net/proto"
	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// Authority consumes the decoded placement and removal requests.
type Authority interface {
	PlaceWaypoint(playerID string, pos marker.Position, app marker.Appearance)
	RemoveNearestWaypoint(playerID string, pos marker.Position)
}

// Handler upgrades player connections and runs their read loops. Each
// decoded frame is handed to the authority tagged with the player
// identity bound at connect time; malformed frames are logged and
// dropped without closing the connection.
type Handler struct {
	authority Authority
	hub       *Hub
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(authority Authority, hub *Hub, log zerolog.Logger) *Handler {
	return &Handler{
		authority: authority,
		hub:       hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("id")
	if playerID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("player", playerID).Msg("websocket upgrade failed")
		return
	}

	sess := h.hub.Subscribe(playerID, conn)
	defer h.hub.Unsubscribe(playerID, sess)

	h.log.Info().Str("player", playerID).Msg("player connected")

	// Seed the fresh connection with the player's current list.
	h.hub.NotifyWaypointsChanged(playerID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.log.Info().Str("player", playerID).Msg("player disconnected")
			return
		}
		h.dispatch(playerID, payload)
	}
}

func (h *Handler) dispatch(playerID string, payload []byte) {
	kind, err := proto.MessageKind(payload)
	if err != nil {
		h.log.Debug().Err(err).Str("player", playerID).Msg("discarding malformed frame")
		return
	}

	switch kind {
	case proto.MsgWaypointRequest:
		req, err := proto.DecodeWaypointRequest(payload)
		if err != nil {
			h.log.Debug().Err(err).Str("player", playerID).Msg("discarding malformed waypoint request")
			return
		}
		h.authority.PlaceWaypoint(playerID, req.Position, req.Appearance)
	case proto.MsgWaypointRemove:
		req, err := proto.DecodeWaypointRemove(payload)
		if err != nil {
			h.log.Debug().Err(err).Str("player", playerID).Msg("discarding malformed removal request")
			return
		}
		h.authority.RemoveNearestWaypoint(playerID, req.Position)
	default:
		h.log.Debug().Uint8("type", uint8(kind)).Str("player", playerID).Msg("unknown message type")
	}
}
