// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game handler. These give clients
// a more specific reason for closure than the standard codes.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
)
