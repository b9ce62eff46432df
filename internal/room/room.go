// internal/room/room.go
package room

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sycamore-games/dealtable/internal/game"
)

// Player is a member of a room. ID is the transport-assigned connection id;
// a player has no identity independent of their live connection.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Room is a named, isolated game session. Game is nil until the game is
// started and is created exactly once per room.
//
// Mu serializes every mutation of the room, including Game, so that
// intra-room operations are strictly ordered while operations on different
// rooms interleave freely. Handlers lock, mutate, snapshot, unlock, and only
// then broadcast.
type Room struct {
	ID      string
	Players []Player
	Game    *game.State

	Mu sync.Mutex
}

// PlayerIDsUnsafe returns the membership order used for turn rotation.
// Assumes the room lock is held.
func (r *Room) PlayerIDsUnsafe() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

// SnapshotUnsafe deep-copies the room for broadcasting. Assumes the room
// lock is held; no live reference to the deck or hands escapes.
func (r *Room) SnapshotUnsafe() Snapshot {
	snap := Snapshot{
		RoomID:  r.ID,
		Players: append([]Player(nil), r.Players...),
	}
	if r.Game != nil {
		snap.Game = r.Game.Snapshot()
	}
	return snap
}

// Snapshot is the room-membership view distributed to clients after every
// mutating call. Game is null while the room is still in the lobby phase.
type Snapshot struct {
	RoomID  string         `json:"roomId"`
	Players []Player       `json:"players"`
	Game    *game.Snapshot `json:"gameState"`
}
