package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"plinko-fair-backend/internal/models"
	"plinko-fair-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	redisService *services.RedisService
	hub          *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	PlayerID string
	Conn     *websocket.Conn
}

type Message struct {
	Type     string      `json:"type"`
	PlayerID string      `json:"player_id,omitempty"`
	RoundID  string      `json:"round_id,omitempty"`
	Data     interface{} `json:"data"`
}

func NewWebSocketHandler(redisService *services.RedisService) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		redisService: redisService,
		hub:          hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	playerID := c.GetString("player_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		PlayerID: playerID,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendHello(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	}
}

func (h *WebSocketHandler) sendHello(client *Client) {
	msg := Message{
		Type: "SESSION_INFO",
		Data: gin.H{
			"player_id": client.PlayerID,
			"timestamp": time.Now().Unix(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.PlayerID] = client.Conn
			log.Printf("Client registered: %s", client.PlayerID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.PlayerID]; ok {
				delete(hub.clients, client.PlayerID)
				log.Printf("Client unregistered: %s", client.PlayerID)
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	if message.PlayerID != "" {
		if conn, ok := hub.clients[message.PlayerID]; ok {
			conn.WriteJSON(message)
		}
	} else {
		for _, conn := range hub.clients {
			conn.WriteJSON(message)
		}
	}
}

// BroadcastRoundResult notifies the round's owner with the publicly safe
// outcome as soon as the play phase finishes.
func (h *WebSocketHandler) BroadcastRoundResult(round *models.Round) {
	msg := &Message{
		Type:     "ROUND_RESULT",
		PlayerID: round.PlayerID,
		RoundID:  round.ID,
		Data: gin.H{
			"round_id":       round.ID,
			"board_hash":     round.BoardHash,
			"outcome_bin":    round.OutcomeBin,
			"decision_trace": round.DecisionTrace,
			"timestamp":      time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}

// BroadcastRoundRevealed goes to every connected client: disclosure is a
// public event, the point is that anyone can now verify.
func (h *WebSocketHandler) BroadcastRoundRevealed(round *models.Round) {
	msg := &Message{
		Type:    "ROUND_REVEALED",
		RoundID: round.ID,
		Data: gin.H{
			"round_id":      round.ID,
			"server_secret": round.ServerSecret,
			"nonce":         round.Nonce,
			"commitment":    round.Commitment,
			"player_value":  round.PlayerValue,
			"drop_column":   round.DropColumn,
			"board_hash":    round.BoardHash,
			"outcome_bin":   round.OutcomeBin,
			"timestamp":     time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}
