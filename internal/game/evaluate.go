// internal/game/evaluate.go
package game

// winningSetCount is the raw number of Property/Wild cards a player must
// accumulate to win. This is a count of cards, not of completed same-color
// sets; the simplified rule is intentional.
const winningSetCount = 3

// evaluateWinner inspects every player's property set and records the first
// one at or past the threshold as the winner. Players are visited in map
// iteration order, so a tie between simultaneous winners resolves to an
// arbitrary one of them; simultaneous wins are not defined behavior.
func (s *State) evaluateWinner() bool {
	for id, set := range s.PropertySets {
		if len(set) >= winningSetCount {
			s.WinnerID = id
			return true
		}
	}
	return false
}
