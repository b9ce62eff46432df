// internal/deck/deck.go
package deck

import (
	"math/rand"
	"time"
)

// Type discriminates the card variants on the wire and in game logic.
type Type string

const (
	Money    Type = "money"
	Property Type = "property"
	Action   Type = "action"
	Wild     Type = "wild"
)

// Card is a tagged variant. Exactly one of the optional fields is meaningful
// for a given Type; the zero values of the others are omitted from JSON so
// the wire shape matches what clients render. Cards are immutable once built.
type Card struct {
	Type   Type     `json:"type"`
	Value  int      `json:"value,omitempty"`  // Money denomination
	Color  string   `json:"color,omitempty"`  // Property color
	Action string   `json:"action,omitempty"` // Action kind
	Colors []string `json:"colors,omitempty"` // Wild eligible colors
}

// CountsTowardSets reports whether playing this card adds to the owner's
// property set (the pile the win condition is evaluated against).
func (c Card) CountsTowardSets() bool {
	return c.Type == Property || c.Type == Wild
}

// canonical is the fixed 10-card composition. Each definition appears
// CopiesPerCard times in a full deck.
var canonical = []Card{
	{Type: Money, Value: 1},
	{Type: Money, Value: 2},
	{Type: Property, Color: "blue"},
	{Type: Property, Color: "red"},
	{Type: Property, Color: "green"},
	{Type: Property, Color: "yellow"},
	{Type: Action, Action: "steal"},
	{Type: Action, Action: "rent"},
	{Type: Wild, Colors: []string{"red", "yellow"}},
	{Type: Wild, Colors: []string{"blue", "green"}},
}

const (
	// CopiesPerCard is how many times each canonical definition appears.
	CopiesPerCard = 3
	// Size is the total number of cards in a freshly built deck: the 10
	// canonical definitions times CopiesPerCard.
	Size = 30
)

// Build returns a freshly permuted deck containing CopiesPerCard copies of
// each canonical definition. The shuffle is a uniform permutation and depends
// only on the fixed composition, never on any room state.
func Build() []Card {
	cards := make([]Card, 0, Size)
	for i := 0; i < CopiesPerCard; i++ {
		cards = append(cards, canonical...)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// Draw removes up to n cards from the tail of cards, one at a time, and
// returns the drawn cards along with the remainder. It returns fewer than n
// (possibly zero) cards when the pile is exhausted; it never fails.
func Draw(cards []Card, n int) (drawn, rest []Card) {
	drawn = make([]Card, 0, n)
	for i := 0; i < n && len(cards) > 0; i++ {
		drawn = append(drawn, cards[len(cards)-1])
		cards = cards[:len(cards)-1]
	}
	return drawn, cards
}
