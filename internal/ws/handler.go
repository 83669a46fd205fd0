package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quizdash/quizdash-backend/internal"
	"github.com/quizdash/quizdash-backend/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP connections and pumps their events into the engine.
type Handler struct {
	hub    *Hub
	engine *game.Engine
}

func NewHandler(hub *Hub, engine *game.Engine) *Handler {
	return &Handler{hub: hub, engine: engine}
}

// ServeWS upgrades the connection and starts its read loop.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade failed: ", err)
		return
	}

	client := NewClient(conn)
	h.hub.Register(client)

	go h.readLoop(client)
}

// readLoop processes inbound frames until the connection drops, then runs
// disconnect cleanup. Cleanup must always run, whatever broke the loop.
func (h *Handler) readLoop(client *Client) {
	defer func() {
		client.Conn.Close()
		h.engine.Leave(client.ID)
		h.hub.Unregister(client.ID)
	}()

	log.Printf("[Handler.readLoop] Started message handler for conn %s", client.ID)

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			log.Printf("[Handler.readLoop] Read error on conn %s: %v", client.ID, err)
			break
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[Handler.readLoop] Failed to parse frame from conn %s: %v", client.ID, err)
			h.sendError(client, "invalid message format")
			continue
		}

		switch msg.Type {
		case internal.EventJoinGame:
			h.handleJoin(client, msg.Data)
		case internal.EventStartQuestion:
			h.handleStartQuestion(client, msg.Data)
		case internal.EventSubmitAnswer:
			h.handleSubmitAnswer(client, msg.Data)
		case internal.EventEndGame:
			h.handleEndGame(client, msg.Data)
		default:
			log.Printf("[Handler.readLoop] Unknown message type %q from conn %s", msg.Type, client.ID)
			h.sendError(client, "unknown event type: "+msg.Type)
		}
	}
}

func (h *Handler) handleJoin(client *Client, raw json.RawMessage) {
	var data internal.JoinGameData
	if err := json.Unmarshal(raw, &data); err != nil || data.Pin == "" || data.Name == "" {
		h.sendError(client, "missing required fields: pin, name")
		return
	}
	if _, err := h.engine.Join(client.ID, data.Pin, data.Name); err != nil {
		h.sendError(client, err.Error())
	}
}

func (h *Handler) handleStartQuestion(client *Client, raw json.RawMessage) {
	var data internal.StartQuestionData
	if err := json.Unmarshal(raw, &data); err != nil || data.Pin == "" || data.Token == "" {
		h.sendError(client, "missing required fields: pin, token")
		return
	}
	if err := h.engine.StartQuestion(context.Background(), data.Pin, data.Token); err != nil {
		h.sendError(client, err.Error())
	}
}

func (h *Handler) handleSubmitAnswer(client *Client, raw json.RawMessage) {
	var data internal.SubmitAnswerData
	if err := json.Unmarshal(raw, &data); err != nil || data.Pin == "" || data.PlayerID == "" || data.Answer == "" {
		h.sendError(client, "missing required fields: pin, player_id, answer")
		return
	}
	recorded, err := h.engine.SubmitAnswer(data.Pin, data.PlayerID, data.Answer)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.hub.Send(client.ID, internal.Message[any]{
		Type: internal.EventAnswerAccepted,
		Data: internal.AnswerAcceptedData{TimeTaken: recorded.TimeTaken.Seconds()},
	})
}

func (h *Handler) handleEndGame(client *Client, raw json.RawMessage) {
	var data internal.EndGameData
	if err := json.Unmarshal(raw, &data); err != nil || data.Pin == "" || data.Token == "" {
		h.sendError(client, "missing required fields: pin, token")
		return
	}
	if err := h.engine.EndGame(context.Background(), data.Pin, data.Token); err != nil {
		h.sendError(client, err.Error())
	}
}

func (h *Handler) sendError(client *Client, msg string) {
	h.hub.Send(client.ID, internal.Message[any]{
		Type: internal.EventError,
		Data: internal.ErrorData{Error: msg},
	})
}
