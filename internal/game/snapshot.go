// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"

	"github.com/sycamore-games/dealtable/internal/deck"
)

// Snapshot is a deep copy of a State, safe to hand to the broadcast layer
// after the room lock is released. Keys are stringified connection ids so
// the JSON matches what clients index into directly.
type Snapshot struct {
	Deck            []deck.Card            `json:"deck"`
	Hands           map[string][]deck.Card `json:"hands"`
	Played          map[string][]deck.Card `json:"played"`
	PropertySets    map[string][]deck.Card `json:"propertySets"`
	CurrentPlayerID string                 `json:"currentPlayerId"`
	Winner          string                 `json:"winner,omitempty"`
}

// Snapshot deep-copies the state. Cards are value types, so copying the
// slices is sufficient.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		Deck:            append([]deck.Card(nil), s.Deck...),
		Hands:           copyPiles(s.Hands),
		Played:          copyPiles(s.Played),
		PropertySets:    copyPiles(s.PropertySets),
		CurrentPlayerID: s.CurrentID.String(),
	}
	if s.WinnerID != uuid.Nil {
		snap.Winner = s.WinnerID.String()
	}
	return snap
}

func copyPiles(piles map[uuid.UUID][]deck.Card) map[string][]deck.Card {
	out := make(map[string][]deck.Card, len(piles))
	for id, cards := range piles {
		out[id.String()] = append([]deck.Card(nil), cards...)
	}
	return out
}
