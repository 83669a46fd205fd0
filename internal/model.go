package internal

import (
	"context"
	"sync"
	"time"
)

const (
	QuestionTimeLimit = 20 * time.Second
	PointsBase        = 1000
	PointsTimeBonus   = 500
	StreakBonus       = 100
	MaxPlayersPerGame = 12
	PinLength         = 6
)

type GameStatus string

const (
	StatusLobby         GameStatus = "lobby"
	StatusQuestion      GameStatus = "question"
	StatusBetweenRounds GameStatus = "between_rounds"
	StatusCompleted     GameStatus = "completed"
)

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

// Question is the shared payload format across the question service, the
// game engine, and the wire. CorrectAnswer is an index into Options and is
// stripped before anything is broadcast to players.
type Question struct {
	Text          string             `json:"text"`
	Options       []string           `json:"options"`
	CorrectAnswer int                `json:"correct_answer"`
	Category      string             `json:"category,omitempty"`
	Difficulty    QuestionDifficulty `json:"difficulty,omitempty"`
	Source        string             `json:"source,omitempty"`
}

// CorrectOption returns the text of the correct answer, or "" when the index
// is out of range.
func (q *Question) CorrectOption() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// HasOption reports whether answer is one of the question's options.
func (q *Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// Answer records a single player's submission for the current round.
type Answer struct {
	Answer    string        `json:"answer"`
	TimeTaken time.Duration `json:"time_taken"`
}

// QuestionTimer bounds a question round. The context expires at the answer
// deadline; Cancel supersedes it when every player has already answered.
type QuestionTimer struct {
	StartTime time.Time          `json:"start_time"`
	Duration  time.Duration      `json:"duration"`
	Context   context.Context    `json:"-"`
	Cancel    context.CancelFunc `json:"-"`
}

// Game is the aggregate for one trivia session, keyed by PIN. All mutation
// happens under Mu; the key sets of Players, Scores and Streaks stay
// consistent whenever the lock is not held.
type Game struct {
	Pin       string     `json:"pin"`
	HostID    string     `json:"host_id"`
	Status    GameStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`

	Players    map[string]*Player `json:"players"`
	Scores     map[string]int     `json:"scores"`
	Streaks    map[string]int     `json:"streaks"`
	MaxPlayers int                `json:"max_players"`

	// PlayerSeq counts every player ever admitted. Ids are minted from it so
	// a leave never frees an id for reuse.
	PlayerSeq int `json:"-"`

	// Round state, only meaningful while Status == StatusQuestion
	CurrentQuestion   *Question          `json:"current_question,omitempty"`
	QuestionStartTime time.Time          `json:"question_start_time"`
	Answers           map[string]*Answer `json:"answers"`
	Round             int                `json:"round"`

	Timer *QuestionTimer `json:"-"`

	LastActivity time.Time `json:"last_activity"`

	Mu sync.RWMutex `json:"-"`
}

// Touch bumps the idle clock. Caller holds Mu.
func (g *Game) Touch(now time.Time) {
	g.LastActivity = now
}

// GameSnapshot is the read-only view served by GET /game/{pin}/status.
type GameSnapshot struct {
	Pin         string         `json:"pin"`
	Status      GameStatus     `json:"status"`
	PlayerCount int            `json:"player_count"`
	Players     []*Player      `json:"players"`
	Scores      map[string]int `json:"scores"`
	Streaks     map[string]int `json:"streaks"`
	Round       int            `json:"round"`
	MaxPlayers  int            `json:"max_players"`
}

// LeaderboardEntry is one row of the ranked standings broadcast after each
// round and at game end.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Streak   int    `json:"streak"`
	Position int    `json:"position"`
}

// AnswerResult is the per-player outcome of a finished round.
type AnswerResult struct {
	Correct bool `json:"correct"`
	Points  int  `json:"points"`
	Streak  int  `json:"streak"`
}
