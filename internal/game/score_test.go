package game

import (
	"testing"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
)

func TestTimeBonus(t *testing.T) {
	limit := internal.QuestionTimeLimit

	tests := []struct {
		name  string
		taken time.Duration
		want  int
	}{
		{"instant answer keeps nearly full bonus", 1 * time.Millisecond, 499},
		{"quarter of the limit", 5 * time.Second, 375},
		{"half the limit", 10 * time.Second, 250},
		{"three seconds", 3 * time.Second, 425},
		{"at the limit", limit, 0},
		{"past the limit", limit + time.Second, 0},
		{"zero elapsed", 0, 0},
		{"negative elapsed", -time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeBonus(tt.taken, limit); got != tt.want {
				t.Errorf("TimeBonus(%v) = %d, want %d", tt.taken, got, tt.want)
			}
		})
	}
}

func TestRoundPoints(t *testing.T) {
	limit := internal.QuestionTimeLimit

	// 3s answer with a fresh streak of 1
	want := 1000 + 425 + 100
	if got := RoundPoints(3*time.Second, limit, 1); got != want {
		t.Errorf("RoundPoints(3s, streak 1) = %d, want %d", got, want)
	}

	// Streak multiplies linearly
	if got := RoundPoints(3*time.Second, limit, 4); got != 1000+425+400 {
		t.Errorf("RoundPoints(3s, streak 4) = %d, want %d", got, 1000+425+400)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	g := &internal.Game{
		Players: map[string]*internal.Player{
			"player_1": {ID: "player_1", Name: "Alice"},
			"player_2": {ID: "player_2", Name: "Bob"},
			"player_3": {ID: "player_3", Name: "Cara"},
		},
		Scores:  map[string]int{"player_1": 1525, "player_2": 0, "player_3": 1525},
		Streaks: map[string]int{"player_1": 1, "player_2": 0, "player_3": 1},
	}

	entries := Leaderboard(g)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	// Ties break on player id so repeated broadcasts agree
	wantOrder := []string{"player_1", "player_3", "player_2"}
	for i, want := range wantOrder {
		if entries[i].PlayerID != want {
			t.Errorf("position %d = %s, want %s", i+1, entries[i].PlayerID, want)
		}
		if entries[i].Position != i+1 {
			t.Errorf("entry %d position = %d, want %d", i, entries[i].Position, i+1)
		}
	}
}
