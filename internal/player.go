package internal

import "time"

// Player is a participant in a game. Connection state lives in the ws
// package so the engine stays transport-free.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}
