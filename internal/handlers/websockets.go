package handlers

import (
	"net/http"
	"time"

	"smartbin"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect upgrades the request and joins the session to the broadcast hub.
// The session's first message is always the initial_data snapshot; after that
// it receives whatever the hub broadcasts, in broadcast order.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	session, err := h.hub.Connect(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_connect_snapshot_failed", "err", err)
		}
		return
	}
	defer h.hub.Disconnect(session)

	// Configure read limits and pong handler to extend the read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine: detects disconnects and handles the legacy
	// client→server passthrough, where an inbound change event is simply
	// re-broadcast to every session.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "session", session.ID(), "err", err)
				}
				return
			}
		case ev, ok := <-session.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "session", session.ID(), "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages until the connection closes,
// re-broadcasting any well-formed change event.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		var ev smartbin.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if ev.Type != "" {
			h.hub.Broadcast(ev)
		}
	}
}
