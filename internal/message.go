package internal

// Message is the envelope for every websocket frame in both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound event names.
const (
	EventJoinGame      = "join_game"
	EventStartQuestion = "start_question"
	EventSubmitAnswer  = "submit_answer"
	EventEndGame       = "end_game"
)

// Outbound event names. These are the wire contract the frontend depends on.
const (
	EventPlayerJoined    = "player_joined"
	EventPlayerLeft      = "player_left"
	EventQuestionStarted = "question_started"
	EventAnswerAccepted  = "answer_accepted"
	EventAnswerReceived  = "answer_received"
	EventQuestionEnded   = "question_ended"
	EventGameEnded       = "game_ended"
	EventError           = "error"
)

type JoinGameData struct {
	Pin  string `json:"pin"`
	Name string `json:"name"`
}

type StartQuestionData struct {
	Pin   string `json:"pin"`
	Token string `json:"token"`
}

type SubmitAnswerData struct {
	Pin      string `json:"pin"`
	PlayerID string `json:"player_id"`
	Answer   string `json:"answer"`
}

type EndGameData struct {
	Pin   string `json:"pin"`
	Token string `json:"token"`
}

type ErrorData struct {
	Error string `json:"error"`
}

type PlayerJoinedData struct {
	Player      *Player `json:"player"`
	PlayerCount int     `json:"player_count"`
	Rejoined    bool    `json:"rejoined,omitempty"`
}

type PlayerLeftData struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
}

// QuestionStartedData carries the question minus its correct answer.
type QuestionStartedData struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"time_limit"`
	Round     int      `json:"round"`
}

// AnswerAcceptedData is sent directly to the submitting player only.
type AnswerAcceptedData struct {
	TimeTaken float64 `json:"time_taken"`
}

// AnswerReceivedData deliberately carries counts only, never the answer.
type AnswerReceivedData struct {
	AnsweredCount int `json:"answered_count"`
	PlayerCount   int `json:"player_count"`
}

type QuestionEndedData struct {
	CorrectAnswer string                  `json:"correct_answer"`
	Results       map[string]AnswerResult `json:"results"`
	Scores        map[string]int          `json:"scores"`
	Streaks       map[string]int          `json:"streaks"`
	Leaderboard   []LeaderboardEntry      `json:"leaderboard"`
	Round         int                     `json:"round"`
}

type GameEndedData struct {
	FinalScores  map[string]int     `json:"final_scores"`
	FinalStreaks map[string]int     `json:"final_streaks"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	RoundsPlayed int                `json:"rounds_played"`
}
