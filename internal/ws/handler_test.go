package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizdash/quizdash-backend/internal"
	"github.com/quizdash/quizdash-backend/internal/game"
)

type staticVerifier struct{}

func (staticVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "host-token" {
		return "host_1", nil
	}
	return "", errors.New("Invalid token")
}

type staticSource struct{}

func (staticSource) Next(ctx context.Context, criteria game.QuestionCriteria) (*internal.Question, error) {
	return &internal.Question{
		Text:          "What is 2+2?",
		Options:       []string{"4", "3", "5", "22"},
		CorrectAnswer: 0,
	}, nil
}

func (staticSource) Forget(pin string) {}

type wsRig struct {
	engine *game.Engine
	srv    *httptest.Server
}

func newWSRig(t *testing.T) *wsRig {
	t.Helper()

	hub := NewHub()
	engine := game.NewEngine(game.NewStore(), game.NewRegistry(), staticVerifier{}, staticSource{}, hub)
	handler := NewHandler(hub, engine)

	srv := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(srv.Close)

	return &wsRig{engine: engine, srv: srv}
}

func (r *wsRig) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(r.srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips events until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) internal.Message[map[string]any] {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg internal.Message[map[string]any]
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", eventType, err)
		}
		if msg.Type == eventType {
			return msg
		}
	}
}

func TestJoinOverWebsocket(t *testing.T) {
	rig := newWSRig(t)
	pin, err := rig.engine.CreateGame("host_1")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	conn := rig.dial(t)
	if err := conn.WriteJSON(internal.Message[internal.JoinGameData]{
		Type: internal.EventJoinGame,
		Data: internal.JoinGameData{Pin: pin, Name: "Alice"},
	}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	msg := readUntil(t, conn, internal.EventPlayerJoined)
	data := msg.Data
	if data["player_count"].(float64) != 1 {
		t.Errorf("player_count = %v, want 1", data["player_count"])
	}
	player := data["player"].(map[string]any)
	if player["name"] != "Alice" {
		t.Errorf("player = %v", player)
	}
}

func TestFullRoundOverWebsocket(t *testing.T) {
	rig := newWSRig(t)
	pin, _ := rig.engine.CreateGame("host_1")

	conn := rig.dial(t)
	conn.WriteJSON(internal.Message[internal.JoinGameData]{
		Type: internal.EventJoinGame,
		Data: internal.JoinGameData{Pin: pin, Name: "Alice"},
	})
	joined := readUntil(t, conn, internal.EventPlayerJoined)
	playerID := joined.Data["player"].(map[string]any)["id"].(string)

	conn.WriteJSON(internal.Message[internal.StartQuestionData]{
		Type: internal.EventStartQuestion,
		Data: internal.StartQuestionData{Pin: pin, Token: "host-token"},
	})
	started := readUntil(t, conn, internal.EventQuestionStarted)
	if started.Data["question"] != "What is 2+2?" {
		t.Errorf("question = %v", started.Data["question"])
	}
	if _, leaked := started.Data["correct_answer"]; leaked {
		t.Error("question_started leaked the correct answer")
	}

	conn.WriteJSON(internal.Message[internal.SubmitAnswerData]{
		Type: internal.EventSubmitAnswer,
		Data: internal.SubmitAnswerData{Pin: pin, PlayerID: playerID, Answer: "4"},
	})

	// The sole player answered, so the round ends immediately with no
	// interim answer_received frame
	ended := readUntil(t, conn, internal.EventQuestionEnded)
	if ended.Data["correct_answer"] != "4" {
		t.Errorf("correct_answer = %v", ended.Data["correct_answer"])
	}
	scores := ended.Data["scores"].(map[string]any)
	if scores[playerID].(float64) < 1000 {
		t.Errorf("score = %v, want at least base points", scores[playerID])
	}

	// The direct ack follows the round broadcasts on this connection
	accepted := readUntil(t, conn, internal.EventAnswerAccepted)
	if accepted.Data["time_taken"].(float64) < 0 {
		t.Errorf("time_taken = %v", accepted.Data["time_taken"])
	}

	conn.WriteJSON(internal.Message[internal.EndGameData]{
		Type: internal.EventEndGame,
		Data: internal.EndGameData{Pin: pin, Token: "host-token"},
	})
	final := readUntil(t, conn, internal.EventGameEnded)
	if final.Data["rounds_played"].(float64) != 1 {
		t.Errorf("rounds_played = %v, want 1", final.Data["rounds_played"])
	}
}

func TestErrorFrames(t *testing.T) {
	rig := newWSRig(t)
	conn := rig.dial(t)

	// Malformed JSON
	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	msg := readUntil(t, conn, internal.EventError)
	if msg.Data["error"] != "invalid message format" {
		t.Errorf("error = %v", msg.Data["error"])
	}

	// Unknown event type
	conn.WriteJSON(internal.Message[map[string]any]{Type: "dance", Data: map[string]any{}})
	msg = readUntil(t, conn, internal.EventError)
	if !strings.Contains(msg.Data["error"].(string), "unknown event type") {
		t.Errorf("error = %v", msg.Data["error"])
	}

	// Join with missing fields
	conn.WriteJSON(internal.Message[internal.JoinGameData]{
		Type: internal.EventJoinGame,
		Data: internal.JoinGameData{Pin: "", Name: ""},
	})
	msg = readUntil(t, conn, internal.EventError)
	if !strings.Contains(msg.Data["error"].(string), "pin") {
		t.Errorf("error = %v", msg.Data["error"])
	}

	// Join against a game that does not exist
	conn.WriteJSON(internal.Message[internal.JoinGameData]{
		Type: internal.EventJoinGame,
		Data: internal.JoinGameData{Pin: "000000", Name: "Ghost"},
	})
	msg = readUntil(t, conn, internal.EventError)
	if !strings.Contains(msg.Data["error"].(string), "not found") {
		t.Errorf("error = %v", msg.Data["error"])
	}
}

func TestDisconnectCleansUp(t *testing.T) {
	rig := newWSRig(t)
	pin, _ := rig.engine.CreateGame("host_1")

	conn := rig.dial(t)
	conn.WriteJSON(internal.Message[internal.JoinGameData]{
		Type: internal.EventJoinGame,
		Data: internal.JoinGameData{Pin: pin, Name: "Alice"},
	})
	readUntil(t, conn, internal.EventPlayerJoined)

	conn.Close()

	// Cleanup runs on the server's read loop; poll until it lands
	deadline := time.After(2 * time.Second)
	for {
		status, err := rig.engine.Status(pin)
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if status.PlayerCount == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("player still present after disconnect, count = %d", status.PlayerCount)
		case <-time.After(20 * time.Millisecond):
		}
	}
}
