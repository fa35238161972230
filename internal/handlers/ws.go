package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/plannr-dev/plannr/internal/types"
	"github.com/plannr-dev/plannr/internal/utils"
)

var (
	boardClients   = make(map[uint]map[*websocket.Conn]bool)
	boardClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every open session of the given user that their
// board data changed and should be re-fetched.
func BroadcastRefresh(userID uint) {
	boardClientsMu.RLock()
	clients, exists := boardClients[userID]
	if !exists || len(clients) == 0 {
		boardClientsMu.RUnlock()
		return
	}

	// Copy the connections so the lock isn't held while writing
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	boardClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Board data updated",
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			boardClientsMu.Lock()
			if clients, exists := boardClients[userID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(boardClients, userID)
				}
			}
			boardClientsMu.Unlock()
			conn.Close()
		}
	}
}

// BoardSocket upgrades an authenticated request to a websocket and keeps it
// registered under the caller's user id until the connection drops.
func BoardSocket(c *gin.Context) {
	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	boardClientsMu.Lock()
	if boardClients[userID] == nil {
		boardClients[userID] = make(map[*websocket.Conn]bool)
	}
	boardClients[userID][conn] = true
	boardClientsMu.Unlock()

	defer func() {
		boardClientsMu.Lock()

		if clients, exists := boardClients[userID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(boardClients, userID)
			}
		}

		boardClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for user %d", userID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
