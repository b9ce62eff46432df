// internal/handlers/conn.go
package handlers

import (
	"log"

	"github.com/google/uuid"
)

// Conn is a single player's live presence on the server. ID is assigned at
// accept time and is the player's identity for the life of the connection.
type Conn struct {
	ID     uuid.UUID
	Cancel func()

	// OutChan carries outbound messages to the write pump. Sends are
	// fire-and-forget; a room's lock is never held across a websocket write.
	OutChan chan map[string]interface{}
}

// Write pushes a message onto the connection's OutChan non-blockingly.
// Logs if the channel is closed or full and the message is dropped.
func (c *Conn) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		log.Printf("Conn Write WARNING: OutChan for connection %s closed or full. Dropped message type '%s'.", c.ID, msgType)
	}
}

// WriteError unicasts an error message to this connection only.
func (c *Conn) WriteError(msg string) {
	c.Write(map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}
