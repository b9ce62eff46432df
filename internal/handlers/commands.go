// internal/handlers/commands.go
package handlers

import (
	"encoding/json"

	"github.com/sycamore-games/dealtable/internal/game"
	"github.com/sycamore-games/dealtable/internal/room"
)

// commandHandler processes one inbound player command. The sender's
// connection id is the acting player; handlers never touch the websocket
// directly.
type commandHandler func(s *Server, c *Conn, payload json.RawMessage)

// commandTable maps the wire command name to its handler. Keeping dispatch
// in a table keeps game logic entirely out of the transport layer.
var commandTable = map[string]commandHandler{
	"createRoom": handleCreateRoom,
	"joinRoom":   handleJoinRoom,
	"startGame":  handleStartGame,
	"playCard":   handlePlayCard,
}

// Dispatch routes a raw inbound frame to its command handler. Malformed
// frames and unknown commands are logged and ignored; the silent no-op
// policy means no new error signal is invented for them.
func (s *Server) Dispatch(c *Conn, data []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.Logger.Warnf("connection %s: invalid json: %v", c.ID, err)
		return
	}

	handler, ok := commandTable[envelope.Type]
	if !ok {
		s.Logger.Warnf("connection %s: unknown command type %q", c.ID, envelope.Type)
		return
	}
	handler(s, c, data)
}

type createRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

func handleCreateRoom(s *Server, c *Conn, payload json.RawMessage) {
	var p createRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Logger.Warnf("connection %s: bad createRoom payload: %v", c.ID, err)
		return
	}

	snap := s.Registry.Create(p.RoomID, room.Player{ID: c.ID, Name: p.PlayerName})
	s.Logger.Infof("connection %s created room %q", c.ID, p.RoomID)
	s.broadcastRoom(snap, roomUpdateMsg(snap))
}

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

func handleJoinRoom(s *Server, c *Conn, payload json.RawMessage) {
	var p joinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Logger.Warnf("connection %s: bad joinRoom payload: %v", c.ID, err)
		return
	}

	snap, err := s.Registry.Join(p.RoomID, room.Player{ID: c.ID, Name: p.PlayerName})
	if err != nil {
		// The one surfaced error: unicast to the sender, no broadcast.
		c.WriteError(err.Error())
		return
	}
	s.Logger.Infof("connection %s joined room %q", c.ID, p.RoomID)
	s.broadcastRoom(snap, roomUpdateMsg(snap))
}

type startGamePayload struct {
	RoomID string `json:"roomId"`
}

// handleStartGame transitions a room from lobby to in-progress. Any member
// may start; there is no ownership check. Starting a nonexistent, empty, or
// already started room is a silent no-op.
func handleStartGame(s *Server, c *Conn, payload json.RawMessage) {
	var p startGamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Logger.Warnf("connection %s: bad startGame payload: %v", c.ID, err)
		return
	}

	r, ok := s.Registry.Get(p.RoomID)
	if !ok {
		return
	}

	r.Mu.Lock()
	if r.Game != nil || len(r.Players) == 0 {
		r.Mu.Unlock()
		return
	}
	r.Game = game.Deal(r.PlayerIDsUnsafe())
	snap := r.SnapshotUnsafe()
	r.Mu.Unlock()

	s.Logger.Infof("room %q: game started with %d players", p.RoomID, len(snap.Players))
	s.broadcastRoom(snap, map[string]interface{}{
		"type":      "gameStarted",
		"roomId":    snap.RoomID,
		"gameState": snap.Game,
	})
}

type playCardPayload struct {
	RoomID    string `json:"roomId"`
	CardIndex int    `json:"cardIndex"`
}

// handlePlayCard applies a play for the sender. Every invalid case (missing
// room or game, wrong turn, out-of-range index, finished game) is a silent
// no-op: nothing is sent and nothing changes.
func handlePlayCard(s *Server, c *Conn, payload json.RawMessage) {
	var p playCardPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.Logger.Warnf("connection %s: bad playCard payload: %v", c.ID, err)
		return
	}

	r, ok := s.Registry.Get(p.RoomID)
	if !ok {
		return
	}

	r.Mu.Lock()
	if r.Game == nil || !r.Game.PlayCard(r.PlayerIDsUnsafe(), c.ID, p.CardIndex) {
		r.Mu.Unlock()
		return
	}
	snap := r.SnapshotUnsafe()
	r.Mu.Unlock()

	if snap.Game.Winner != "" {
		s.Logger.Infof("room %q: winner is %s", p.RoomID, snap.Game.Winner)
	}
	s.broadcastRoom(snap, map[string]interface{}{
		"type":      "gameUpdate",
		"roomId":    snap.RoomID,
		"gameState": snap.Game,
	})
}
