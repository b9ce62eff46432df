// internal/room/registry.go
package room

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRoomNotFound is the only error a registry operation surfaces to a
// caller. The message doubles as the client-facing error string.
var ErrRoomNotFound = errors.New("Room not found")

// Registry owns the set of active rooms for the life of the process.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create registers a room containing only the creating player. An existing
// room under the same id is silently replaced, reference behavior that is
// flagged as an open question in DESIGN.md rather than changed.
func (reg *Registry) Create(roomID string, p Player) Snapshot {
	r := &Room{
		ID:      roomID,
		Players: []Player{p},
	}

	reg.mu.Lock()
	reg.rooms[roomID] = r
	reg.mu.Unlock()

	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.SnapshotUnsafe()
}

// Join appends the player to the room's membership. There is no duplicate
// check: any connection may join any number of times.
func (reg *Registry) Join(roomID string, p Player) (Snapshot, error) {
	r, ok := reg.Get(roomID)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}

	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.Players = append(r.Players, p)
	return r.SnapshotUnsafe(), nil
}

// Get returns the live room. Callers must take the room's lock before
// touching its state.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[roomID]
	return r, ok
}

// RemovePlayer prunes the connection from every room's player list and
// returns a snapshot of each room the player was actually a member of.
// Rooms that become empty are kept, and a game's current player is not
// reassigned if it pointed at the removed connection.
func (reg *Registry) RemovePlayer(connID uuid.UUID) []Snapshot {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.Unlock()

	var affected []Snapshot
	for _, r := range rooms {
		r.Mu.Lock()
		kept := r.Players[:0:0]
		for _, p := range r.Players {
			if p.ID != connID {
				kept = append(kept, p)
			}
		}
		if len(kept) != len(r.Players) {
			r.Players = kept
			affected = append(affected, r.SnapshotUnsafe())
		}
		r.Mu.Unlock()
	}
	return affected
}
