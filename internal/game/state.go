// internal/game/state.go
package game

import (
	"github.com/google/uuid"

	"github.com/sycamore-games/dealtable/internal/deck"
)

// HandSize is how many cards each player is dealt at game start.
const HandSize = 5

// State holds the in-progress data for one started game. It is created
// exactly once per room and mutated only while the owning room's lock is
// held; nothing outside a call may keep a live reference to its piles.
//
// The game is in progress while WinnerID is uuid.Nil and finished once a
// winner has been recorded.
type State struct {
	Deck         []deck.Card
	Hands        map[uuid.UUID][]deck.Card
	Played       map[uuid.UUID][]deck.Card
	PropertySets map[uuid.UUID][]deck.Card
	CurrentID    uuid.UUID
	WinnerID     uuid.UUID
}

// Deal builds a shuffled deck and deals HandSize cards to each player in
// join order. The first player in order becomes the current player. order
// must be non-empty; the caller guards the empty-room case.
func Deal(order []uuid.UUID) *State {
	s := &State{
		Deck:         deck.Build(),
		Hands:        make(map[uuid.UUID][]deck.Card, len(order)),
		Played:       make(map[uuid.UUID][]deck.Card, len(order)),
		PropertySets: make(map[uuid.UUID][]deck.Card, len(order)),
		CurrentID:    order[0],
	}
	for _, id := range order {
		s.Hands[id], s.Deck = deck.Draw(s.Deck, HandSize)
	}
	return s
}

// Finished reports whether a winner has been recorded.
func (s *State) Finished() bool {
	return s.WinnerID != uuid.Nil
}

// PlayCard applies one play for actorID against the current membership
// order. It returns true when state changed.
//
// Invalid input is a silent no-op by design: a finished game, a non-current
// actor, or an out-of-bounds index leaves the state bit-for-bit unchanged
// and returns false. Callers must not surface a distinct rejection signal;
// clients pre-validate against the broadcast snapshots instead.
func (s *State) PlayCard(order []uuid.UUID, actorID uuid.UUID, cardIndex int) bool {
	if s.Finished() || actorID != s.CurrentID {
		return false
	}
	hand := s.Hands[actorID]
	if cardIndex < 0 || cardIndex >= len(hand) {
		return false
	}

	// Index-based removal: client-displayed indices depend on hand order.
	card := hand[cardIndex]
	s.Hands[actorID] = append(hand[:cardIndex], hand[cardIndex+1:]...)

	s.Played[actorID] = append(s.Played[actorID], card)
	if card.CountsTowardSets() {
		s.PropertySets[actorID] = append(s.PropertySets[actorID], card)
	}

	if s.evaluateWinner() {
		// Terminal: the turn does not advance past a winning play.
		return true
	}

	s.advanceTurn(order)
	return true
}

// advanceTurn moves CurrentID to the next player in order, wrapping modulo
// the current membership. If the current player is no longer a member the
// scan misses and the wrap lands on the first player.
func (s *State) advanceTurn(order []uuid.UUID) {
	if len(order) == 0 {
		return
	}
	cur := -1
	for i, id := range order {
		if id == s.CurrentID {
			cur = i
			break
		}
	}
	s.CurrentID = order[(cur+1)%len(order)]
}
