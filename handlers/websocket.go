package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"finance-server/usecases"
	"finance-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSHandler groups dependencies for the live-update socket
type WSHandler struct {
	mgr  *ws.Manager
	auth *usecases.AuthUseCase
}

func NewWSHandler(mgr *ws.Manager, auth *usecases.AuthUseCase) *WSHandler {
	return &WSHandler{mgr: mgr, auth: auth}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleLedgerWS upgrades to websocket and streams the caller's ledger events.
// GET /ws?token=<jwt>
func (h *WSHandler) HandleLedgerWS(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		raw, _ = strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Missing token"})
		return
	}

	user, err := h.auth.ResolveToken(c.Request.Context(), raw)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, usecases.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.mgr.Register(user.ID, conn)
	log.Printf("live updates connected: user %d", user.ID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.mgr.Unregister(user.ID, conn)
		log.Printf("live updates disconnected: user %d", user.ID)
	}()

	go h.keepAlive(conn, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// clients only listen; reads exist to notice pongs and close frames
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from user %d: %v", user.ID, err)
			}
			return
		}
	}
}

func (h *WSHandler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
