package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProfileGetter loads the profile behind a token.
type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// ClientMessage is sent by the browser to manage its table subscriptions.
type ClientMessage struct {
	Type  string `json:"type"` // subscribe | unsubscribe
	Table string `json:"table"`
}

// UpgradeRealtimeWS authenticates ?token=, registers the client and serves subscribe /
// unsubscribe requests until the socket closes.
func UpgradeRealtimeWS(cfg *config.JWTConfig, profiles ProfileGetter, hub *Hub) gin.HandlerFunc {
	log := logging.For("ws")
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		p, err := profiles.GetByID(c.Request.Context(), claims.ProfileID)
		if err != nil || p.IsSuspended() {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"account unavailable"}`))
			return
		}
		client := NewClient(p.ID, p.Role)
		hub.Register(client)
		defer client.Close()
		log.WithField("profile_id", p.ID).Debug("realtime client connected")

		go writePump(client, conn)
		readPump(client, conn)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(c *Client, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if reply := handleClientMessage(c, msg); reply != nil {
			c.trySend(reply)
		}
	}
}

func handleClientMessage(c *Client, msg ClientMessage) []byte {
	if !domain.ValidRealtimeTable(msg.Table) {
		out, _ := json.Marshal(gin.H{"type": "error", "error": "unknown table", "table": msg.Table})
		return out
	}
	switch msg.Type {
	case "subscribe":
		c.Subscribe(msg.Table)
	case "unsubscribe":
		c.Unsubscribe(msg.Table)
	default:
		out, _ := json.Marshal(gin.H{"type": "error", "error": "unknown message type"})
		return out
	}
	out, _ := json.Marshal(gin.H{"type": msg.Type + "d", "table": msg.Table})
	return out
}
