// internal/handlers/commands_test.go
package handlers

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sycamore-games/dealtable/internal/deck"
	"github.com/sycamore-games/dealtable/internal/game"
	"github.com/sycamore-games/dealtable/internal/room"
)

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(logger)
}

// newTestConn registers a connection with a buffered out channel that acts
// as the message collector, standing in for the write pump.
func newTestConn(s *Server) *Conn {
	c := &Conn{
		ID:      uuid.New(),
		OutChan: make(chan map[string]interface{}, 32),
	}
	s.AddConn(c)
	return c
}

func drain(c *Conn) []map[string]interface{} {
	var msgs []map[string]interface{}
	for {
		select {
		case m := <-c.OutChan:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func dispatch(s *Server, c *Conn, format string, args ...interface{}) {
	s.Dispatch(c, []byte(fmt.Sprintf(format, args...)))
}

func TestCreateRoomBroadcastsRoomUpdate(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	assert.Equal(t, "roomUpdate", msgs[0]["type"])
	assert.Equal(t, "R1", msgs[0]["roomId"])
	players, ok := msgs[0]["players"].([]room.Player)
	require.True(t, ok)
	require.Len(t, players, 1)
	assert.Equal(t, alice.ID, players[0].ID)
	assert.Equal(t, "Alice", players[0].Name)
	assert.Nil(t, msgs[0]["gameState"])
}

func TestJoinRoomBroadcastsToAllMembers(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	drain(alice)

	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)

	for _, c := range []*Conn{alice, bob} {
		msgs := drain(c)
		require.Len(t, msgs, 1)
		assert.Equal(t, "roomUpdate", msgs[0]["type"])
		players := msgs[0]["players"].([]room.Player)
		require.Len(t, players, 2)
	}
}

// TestJoinUnknownRoomUnicastsErrorOnly: the error goes to the sender alone
// and no roomUpdate is broadcast.
func TestJoinUnknownRoomUnicastsErrorOnly(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	carol := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	drain(alice)

	dispatch(s, carol, `{"type":"joinRoom","roomId":"doesNotExist","playerName":"Carol"}`)

	msgs := drain(carol)
	require.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0]["type"])
	assert.Equal(t, "Room not found", msgs[0]["message"])
	assert.Empty(t, drain(alice))
}

func TestStartGameDealsAndBroadcasts(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)
	drain(alice)
	drain(bob)

	// Any member may start; there is no ownership check.
	dispatch(s, bob, `{"type":"startGame","roomId":"R1"}`)

	for _, c := range []*Conn{alice, bob} {
		msgs := drain(c)
		require.Len(t, msgs, 1)
		assert.Equal(t, "gameStarted", msgs[0]["type"])
		snap, ok := msgs[0]["gameState"].(*game.Snapshot)
		require.True(t, ok)
		assert.Len(t, snap.Deck, 20)
		assert.Len(t, snap.Hands[alice.ID.String()], 5)
		assert.Len(t, snap.Hands[bob.ID.String()], 5)
		assert.Equal(t, alice.ID.String(), snap.CurrentPlayerID)
		assert.Empty(t, snap.Winner)
	}
}

func TestStartGameTwiceIsSilent(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, alice, `{"type":"startGame","roomId":"R1"}`)
	drain(alice)

	dispatch(s, alice, `{"type":"startGame","roomId":"R1"}`)
	assert.Empty(t, drain(alice), "GameState is created exactly once")
}

func TestStartUnknownRoomIsSilent(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)

	dispatch(s, alice, `{"type":"startGame","roomId":"nope"}`)
	assert.Empty(t, drain(alice))
}

func TestPlayCardBeforeStartIsSilent(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	drain(alice)

	dispatch(s, alice, `{"type":"playCard","roomId":"R1","cardIndex":0}`)
	assert.Empty(t, drain(alice))
}

func TestPlayCardOutOfTurnIsSilent(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)
	dispatch(s, alice, `{"type":"startGame","roomId":"R1"}`)
	drain(alice)
	drain(bob)

	dispatch(s, bob, `{"type":"playCard","roomId":"R1","cardIndex":0}`)

	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(bob))
}

// rigHands swaps in known hands so the play sequence is deterministic.
func rigHands(t *testing.T, s *Server, roomID string, hands map[uuid.UUID][]deck.Card) {
	t.Helper()
	r, ok := s.Registry.Get(roomID)
	require.True(t, ok)
	r.Mu.Lock()
	defer r.Mu.Unlock()
	require.NotNil(t, r.Game)
	for id, hand := range hands {
		r.Game.Hands[id] = hand
	}
}

// TestPlayCardFlowToWin drives the full documented scenario over the
// adapter: alternating plays, gameUpdate broadcasts, and the terminal
// winner state that locks out further plays.
func TestPlayCardFlowToWin(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)
	dispatch(s, alice, `{"type":"startGame","roomId":"R1"}`)
	drain(alice)
	drain(bob)

	rigHands(t, s, "R1", map[uuid.UUID][]deck.Card{
		alice.ID: {
			{Type: deck.Property, Color: "blue"},
			{Type: deck.Property, Color: "red"},
			{Type: deck.Wild, Colors: []string{"red", "yellow"}},
		},
		bob.ID: {
			{Type: deck.Money, Value: 1},
			{Type: deck.Money, Value: 2},
			{Type: deck.Money, Value: 1},
		},
	})

	play := func(c *Conn) *game.Snapshot {
		dispatch(s, c, `{"type":"playCard","roomId":"R1","cardIndex":0}`)
		msgs := drain(alice)
		require.Len(t, msgs, 1)
		require.Equal(t, "gameUpdate", msgs[0]["type"])
		bobMsgs := drain(bob)
		require.Len(t, bobMsgs, 1)
		return msgs[0]["gameState"].(*game.Snapshot)
	}

	snap := play(alice)
	assert.Len(t, snap.PropertySets[alice.ID.String()], 1)
	assert.Equal(t, bob.ID.String(), snap.CurrentPlayerID)

	play(bob)
	play(alice)
	play(bob)
	snap = play(alice)

	assert.Equal(t, alice.ID.String(), snap.Winner)
	assert.Len(t, snap.PropertySets[alice.ID.String()], 3)
	assert.Equal(t, alice.ID.String(), snap.CurrentPlayerID, "turn does not advance past the winning play")

	// Finished game: every further play is a silent no-op.
	dispatch(s, bob, `{"type":"playCard","roomId":"R1","cardIndex":0}`)
	dispatch(s, alice, `{"type":"playCard","roomId":"R1","cardIndex":1}`)
	assert.Empty(t, drain(alice))
	assert.Empty(t, drain(bob))
}

func TestDisconnectBroadcastsRoomUpdate(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)
	drain(alice)
	drain(bob)

	s.Disconnect(bob.ID)

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	assert.Equal(t, "roomUpdate", msgs[0]["type"])
	players := msgs[0]["players"].([]room.Player)
	require.Len(t, players, 1)
	assert.Equal(t, alice.ID, players[0].ID)
	assert.Empty(t, drain(bob), "removed connections get nothing")
}

// TestDisconnectMidGameLeavesTurnDangling documents the known gap over the
// adapter path: Bob leaves on his turn, the roomUpdate drops him, but the
// game still waits on his id.
func TestDisconnectMidGameLeavesTurnDangling(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)
	bob := newTestConn(s)

	dispatch(s, alice, `{"type":"createRoom","roomId":"R1","playerName":"Alice"}`)
	dispatch(s, bob, `{"type":"joinRoom","roomId":"R1","playerName":"Bob"}`)
	dispatch(s, alice, `{"type":"startGame","roomId":"R1"}`)
	drain(alice)
	drain(bob)

	r, ok := s.Registry.Get("R1")
	require.True(t, ok)
	r.Mu.Lock()
	r.Game.CurrentID = bob.ID
	r.Mu.Unlock()

	s.Disconnect(bob.ID)

	msgs := drain(alice)
	require.Len(t, msgs, 1)
	snap := msgs[0]["gameState"].(*game.Snapshot)
	assert.Equal(t, bob.ID.String(), snap.CurrentPlayerID, "turn still reads the disconnected player's id")

	dispatch(s, alice, `{"type":"playCard","roomId":"R1","cardIndex":0}`)
	assert.Empty(t, drain(alice), "no remaining player can act while the turn dangles")
}

func TestDispatchIgnoresGarbage(t *testing.T) {
	s := newTestServer()
	alice := newTestConn(s)

	s.Dispatch(alice, []byte(`not json`))
	s.Dispatch(alice, []byte(`{"type":"teleport"}`))

	assert.Empty(t, drain(alice), "malformed and unknown frames get no reply")
}
