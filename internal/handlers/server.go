// internal/handlers/server.go
package handlers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sycamore-games/dealtable/internal/room"
)

// Server is the protocol adapter between the transport and the game core.
// It resolves inbound commands against the room registry and fans resulting
// snapshots out to every connection joined to the affected room.
type Server struct {
	Registry *room.Registry
	Logger   *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]*Conn
}

func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Registry: room.NewRegistry(),
		Logger:   logger,
		conns:    make(map[uuid.UUID]*Conn),
	}
}

// AddConn registers a live connection so room broadcasts can reach it.
func (s *Server) AddConn(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.ID] = c
}

func (s *Server) getConn(id uuid.UUID) (*Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	return c, ok
}

// Disconnect handles the transport-level disconnect event: the connection
// is dropped from the table, pruned from every room's membership, and a
// roomUpdate goes out to each room the player was in. Disconnection is a
// normal membership change, never an error.
func (s *Server) Disconnect(connID uuid.UUID) {
	s.mu.Lock()
	delete(s.conns, connID)
	s.mu.Unlock()

	for _, snap := range s.Registry.RemovePlayer(connID) {
		s.broadcastRoom(snap, roomUpdateMsg(snap))
	}
}

// broadcastRoom delivers msg to every connection currently in the room
// snapshot. Writes are non-blocking; members without a live connection are
// skipped.
func (s *Server) broadcastRoom(snap room.Snapshot, msg map[string]interface{}) {
	for _, p := range snap.Players {
		if c, ok := s.getConn(p.ID); ok {
			c.Write(msg)
		}
	}
}

func roomUpdateMsg(snap room.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"type":      "roomUpdate",
		"roomId":    snap.RoomID,
		"players":   snap.Players,
		"gameState": snap.Game,
	}
}
