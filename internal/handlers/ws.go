// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sycamore-games/dealtable/internal/middleware"
)

// WSHandler upgrades the HTTP connection, assigns the connection id that is
// the player's identity, and runs the read loop until disconnect. All room
// membership for the connection is torn down when the loop exits.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"deal"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "deal" {
			c.Close(BadSubprotocolError, "client must speak the deal subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		conn := &Conn{
			ID:      uuid.New(),
			Cancel:  cancel,
			OutChan: make(chan map[string]interface{}, 16),
		}
		s.AddConn(conn)
		middleware.LogWebSocketConnect(logger, remoteAddr, r.URL.Path)
		logger.Infof("connection %s established from %s", conn.ID, remoteAddr)

		go writePump(ctx, c, conn, logger)

		readPump(ctx, c, s, conn, logger)

		// ---- Cleanup after readPump exits ----
		s.Disconnect(conn.ID)
		cancel()
		middleware.LogWebSocketDisconnect(logger, remoteAddr, r.URL.Path, nil)
	}
}

// readPump pulls frames off the websocket and dispatches them as commands
// until the connection closes or the context is cancelled.
func readPump(ctx context.Context, c *websocket.Conn, s *Server, conn *Conn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("connection %s closed normally", conn.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				// Context cancellation is an expected shutdown path.
			} else {
				logger.Warnf("connection %s: read error: %v (CloseStatus: %d)", conn.ID, err, closeStatus)
			}
			return
		}

		if typ != websocket.MessageText {
			logger.Warnf("connection %s: ignoring non-text message type %d", conn.ID, typ)
			continue
		}

		s.Dispatch(conn, msg)
	}
}

// writePump drains the connection's OutChan onto the websocket and keeps
// the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("connection %s: failed to marshal outgoing msg: %v", conn.ID, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("connection %s: websocket write failed: %v", conn.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("connection %s: ping failed: %v. Assuming disconnect.", conn.ID, err)
				return
			}
		}
	}
}
