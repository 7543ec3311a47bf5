package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oomph-ac/verdict/combat"
	"github.com/oomph-ac/verdict/entity"
	"github.com/oomph-ac/verdict/movement"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
}

// streamMessage is a message sent by a game server over a match stream. Data holds a WorldState, a
// HitRequest or a movement Update depending on Type.
type streamMessage struct {
	Type string          `json:"type"`
	Seq  uint64          `json:"seq,omitempty"`
	Data json.RawMessage `json:"data"`
}

// streamReply answers a streamMessage with the same Seq. Snapshots are not answered unless they fail.
type streamReply struct {
	Type   string `json:"type"`
	Seq    uint64 `json:"seq,omitempty"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleStream upgrades the connection to a WebSocket over which a game server can push world states and
// have hits and movements validated without a request per message. Messages are handled in order.
func (h *handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "match")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("stream upgrade failed", "match", id, "err", err)
		return
	}
	defer conn.Close()
	h.log.Debug("stream opened", "match", id, "remote", r.RemoteAddr)

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("stream closed", "match", id, "err", err)
			}
			return
		}

		reply, ok := h.handleStreamMessage(r, id, msg)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.log.Debug("stream write failed", "match", id, "err", err)
			return
		}
	}
}

// handleStreamMessage handles a single stream message, returning false if no reply is needed.
func (h *handlers) handleStreamMessage(r *http.Request, id string, msg streamMessage) (streamReply, bool) {
	reply := streamReply{Type: msg.Type, Seq: msg.Seq}
	fail := func(err error) (streamReply, bool) {
		reply.Type, reply.Error = "error", err.Error()
		return reply, true
	}

	switch msg.Type {
	case "snapshot":
		var state entity.WorldState
		if err := json.Unmarshal(msg.Data, &state); err != nil {
			return fail(err)
		}
		if err := h.registry.RecordWorldState(r.Context(), id, state); err != nil {
			return fail(err)
		}
		return reply, false
	case "hit":
		var req combat.HitRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return fail(err)
		}
		res, err := h.registry.ValidateHit(r.Context(), id, req)
		if err != nil {
			return fail(err)
		}
		reply.Result = res
	case "movement":
		var u movement.Update
		if err := json.Unmarshal(msg.Data, &u); err != nil {
			return fail(err)
		}
		check, err := h.registry.ValidateMovement(r.Context(), id, u)
		if err != nil {
			return fail(err)
		}
		reply.Result = check
	default:
		reply.Type, reply.Error = "error", "unknown message type "+msg.Type
	}
	return reply, true
}
