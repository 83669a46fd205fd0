package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
)

// TokenVerifier resolves a bearer token to the host identity that owns it.
// A non-nil error means the token is not usable; the message is surfaced to
// the caller.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (hostID string, err error)
}

// QuestionCriteria selects the next question for a game round. HostToken is
// forwarded because the question service authenticates hosts itself.
type QuestionCriteria struct {
	Pin       string
	Round     int
	HostToken string
}

// QuestionSource supplies the next question for a game round. Forget
// releases whatever the source holds for a finished game; PINs are reused
// after deletion, so a stale question list must not outlive its game.
type QuestionSource interface {
	Next(ctx context.Context, criteria QuestionCriteria) (*internal.Question, error)
	Forget(pin string)
}

// Gateway is the engine's view of the realtime transport: room membership
// keyed by PIN, room broadcast, and direct messages to a single connection.
// All calls are fire-and-forget.
type Gateway interface {
	JoinRoom(connID, pin string)
	LeaveRoom(connID, pin string)
	Broadcast(pin string, msg internal.Message[any])
	Send(connID string, msg internal.Message[any])
}

// Engine is the game state machine. It owns every mutation of a Game
// aggregate; transports call in and events flow back out through the
// Gateway. The engine itself has no framework dependency.
type Engine struct {
	store    *Store
	registry *Registry
	verifier TokenVerifier
	source   QuestionSource
	gateway  Gateway

	limit time.Duration
	now   func() time.Time
}

func NewEngine(store *Store, registry *Registry, verifier TokenVerifier, source QuestionSource, gateway Gateway) *Engine {
	return &Engine{
		store:    store,
		registry: registry,
		verifier: verifier,
		source:   source,
		gateway:  gateway,
		limit:    internal.QuestionTimeLimit,
		now:      time.Now,
	}
}

// Store exposes the underlying game store for the HTTP surface.
func (e *Engine) Store() *Store {
	return e.store
}

// VerifyHost resolves a bearer token, wrapping failures as auth errors.
func (e *Engine) VerifyHost(ctx context.Context, token string) (string, error) {
	hostID, err := e.verifier.Verify(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return hostID, nil
}

// CreateGame allocates a new game for an already-authenticated host.
func (e *Engine) CreateGame(hostID string) (string, error) {
	g, err := e.store.Create(hostID)
	if err != nil {
		return "", err
	}
	return g.Pin, nil
}

// Join adds a player to a game and seats the connection in its room. A name
// already present in the game reclaims that player's seat (and score)
// instead of creating a duplicate; the stale connection is evicted from the
// room.
func (e *Engine) Join(connID, pin, name string) (*internal.Player, error) {
	g, err := e.store.Get(pin)
	if err != nil {
		return nil, err
	}

	g.Mu.Lock()

	if g.Status == internal.StatusCompleted {
		g.Mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, ErrGameCompleted)
	}

	var player *internal.Player
	rejoined := false
	for _, p := range g.Players {
		if p.Name == name {
			player = p
			rejoined = true
			break
		}
	}

	if player == nil {
		if len(g.Players) >= g.MaxPlayers {
			g.Mu.Unlock()
			return nil, ErrGameFull
		}
		g.PlayerSeq++
		player = &internal.Player{
			ID:       fmt.Sprintf("player_%d", g.PlayerSeq),
			Name:     name,
			JoinedAt: e.now(),
		}
		g.Players[player.ID] = player
		g.Scores[player.ID] = 0
		g.Streaks[player.ID] = 0
	}

	g.Touch(e.now())
	joined := internal.Message[any]{
		Type: internal.EventPlayerJoined,
		Data: internal.PlayerJoinedData{
			Player:      player,
			PlayerCount: len(g.Players),
			Rejoined:    rejoined,
		},
	}
	g.Mu.Unlock()

	// Evict any stale connections still seated as this player before the
	// new connection takes over.
	if rejoined {
		for _, stale := range e.registry.ConnsFor(pin, player.ID) {
			e.registry.Unbind(stale)
			e.gateway.LeaveRoom(stale, pin)
		}
	}

	e.registry.Bind(connID, pin, player.ID)
	e.gateway.JoinRoom(connID, pin)
	e.gateway.Broadcast(pin, joined)

	log.Printf("[Engine.Join] Player %s (%s) joined game %s (rejoin=%v)", player.ID, name, pin, rejoined)
	return player, nil
}

// Leave removes the player seated at connID from their game. It is the
// single cleanup path for both explicit leaves and abrupt disconnects, and
// is idempotent: unknown connections and already-removed players are no-ops.
// It never panics outward; a failure here must not poison the read loop.
func (e *Engine) Leave(connID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine.Leave] Recovered during cleanup of conn %s: %v", connID, r)
		}
	}()

	seat, ok := e.registry.Unbind(connID)
	if !ok {
		return
	}
	e.gateway.LeaveRoom(connID, seat.Pin)

	g, err := e.store.Get(seat.Pin)
	if err != nil {
		return
	}

	g.Mu.Lock()
	player, ok := g.Players[seat.PlayerID]
	if !ok {
		g.Mu.Unlock()
		return
	}
	delete(g.Players, seat.PlayerID)
	delete(g.Scores, seat.PlayerID)
	delete(g.Streaks, seat.PlayerID)
	delete(g.Answers, seat.PlayerID)
	g.Touch(e.now())

	left := internal.Message[any]{
		Type: internal.EventPlayerLeft,
		Data: internal.PlayerLeftData{
			PlayerID:    player.ID,
			Name:        player.Name,
			PlayerCount: len(g.Players),
		},
	}
	// The departed player may have been the last holdout of the round.
	finishRound := g.Status == internal.StatusQuestion &&
		len(g.Players) > 0 && len(g.Answers) >= len(g.Players)
	g.Mu.Unlock()

	e.gateway.Broadcast(seat.Pin, left)
	log.Printf("[Engine.Leave] Player %s left game %s", seat.PlayerID, seat.Pin)

	if finishRound {
		e.EndQuestion(seat.Pin)
	}
}

// StartQuestion begins a new round. Token validity is checked before the
// host identity match, and the round only starts from the lobby or between
// rounds.
func (e *Engine) StartQuestion(ctx context.Context, pin, token string) error {
	hostID, err := e.VerifyHost(ctx, token)
	if err != nil {
		return err
	}

	g, err := e.store.Get(pin)
	if err != nil {
		return err
	}

	g.Mu.Lock()
	if g.HostID != hostID {
		g.Mu.Unlock()
		return ErrNotHost
	}
	if g.Status != internal.StatusLobby && g.Status != internal.StatusBetweenRounds {
		g.Mu.Unlock()
		return ErrInvalidState
	}
	round := g.Round + 1
	g.Mu.Unlock()

	question, err := e.source.Next(ctx, QuestionCriteria{Pin: pin, Round: round, HostToken: token})
	if err != nil {
		return fmt.Errorf("fetch question: %w", err)
	}

	g.Mu.Lock()
	// Re-check: another start may have won the race while we were fetching.
	if g.Status != internal.StatusLobby && g.Status != internal.StatusBetweenRounds {
		g.Mu.Unlock()
		return ErrInvalidState
	}
	g.CurrentQuestion = question
	g.QuestionStartTime = e.now()
	g.Answers = make(map[string]*internal.Answer)
	g.Round++
	g.Status = internal.StatusQuestion
	g.Touch(e.now())

	started := internal.Message[any]{
		Type: internal.EventQuestionStarted,
		Data: internal.QuestionStartedData{
			Question:  question.Text,
			Options:   append([]string(nil), question.Options...),
			TimeLimit: int(e.limit.Seconds()),
			Round:     g.Round,
		},
	}
	g.Mu.Unlock()

	e.gateway.Broadcast(pin, started)
	e.startQuestionTimer(g)

	log.Printf("[Engine.StartQuestion] Game %s round %d started", pin, round)
	return nil
}

// SubmitAnswer records a player's answer for the current round. First
// submission wins; repeats are rejected. When the last connected player
// answers, the round ends immediately.
func (e *Engine) SubmitAnswer(pin, playerID, answer string) (*internal.Answer, error) {
	g, err := e.store.Get(pin)
	if err != nil {
		return nil, err
	}

	g.Mu.Lock()
	if g.Status != internal.StatusQuestion || g.CurrentQuestion == nil {
		g.Mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, ErrNoActiveQuestion)
	}
	if _, ok := g.Players[playerID]; !ok {
		g.Mu.Unlock()
		return nil, ErrPlayerNotFound
	}
	if _, ok := g.Answers[playerID]; ok {
		g.Mu.Unlock()
		return nil, ErrAlreadyAnswered
	}
	if !g.CurrentQuestion.HasOption(answer) {
		g.Mu.Unlock()
		return nil, ErrInvalidAnswer
	}

	recorded := &internal.Answer{
		Answer:    answer,
		TimeTaken: e.now().Sub(g.QuestionStartTime),
	}
	g.Answers[playerID] = recorded
	g.Touch(e.now())

	received := internal.Message[any]{
		Type: internal.EventAnswerReceived,
		Data: internal.AnswerReceivedData{
			AnsweredCount: len(g.Answers),
			PlayerCount:   len(g.Players),
		},
	}
	allAnswered := len(g.Answers) >= len(g.Players)
	g.Mu.Unlock()

	// The submission that completes the round goes straight to the round
	// result; only earlier ones announce progress.
	if allAnswered {
		log.Printf("[Engine.SubmitAnswer] Game %s: all players answered, ending round early", pin)
		e.EndQuestion(pin)
		return recorded, nil
	}

	e.gateway.Broadcast(pin, received)
	return recorded, nil
}

// EndQuestion scores the current round and moves the game between rounds.
// It is triggered by the timer expiring, by the last answer arriving, or by
// the last holdout disconnecting; whichever fires first wins and the rest
// are no-ops thanks to the CurrentQuestion guard.
func (e *Engine) EndQuestion(pin string) {
	g, err := e.store.Get(pin)
	if err != nil {
		return
	}

	g.Mu.Lock()
	if g.CurrentQuestion == nil {
		g.Mu.Unlock()
		return
	}

	if g.Timer != nil {
		if g.Timer.Cancel != nil {
			g.Timer.Cancel()
		}
		g.Timer = nil
	}

	correct := g.CurrentQuestion.CorrectOption()
	results := make(map[string]internal.AnswerResult, len(g.Players))

	for playerID := range g.Players {
		ans, answered := g.Answers[playerID]
		switch {
		case !answered, ans.TimeTaken <= 0, ans.TimeTaken > e.limit:
			// Missing and invalid submissions score identically
			g.Streaks[playerID] = 0
			results[playerID] = internal.AnswerResult{Correct: false, Points: 0, Streak: 0}
		case ans.Answer == correct:
			g.Streaks[playerID]++
			points := RoundPoints(ans.TimeTaken, e.limit, g.Streaks[playerID])
			g.Scores[playerID] += points
			results[playerID] = internal.AnswerResult{
				Correct: true,
				Points:  points,
				Streak:  g.Streaks[playerID],
			}
		default:
			g.Streaks[playerID] = 0
			results[playerID] = internal.AnswerResult{Correct: false, Points: 0, Streak: 0}
		}
	}

	g.Status = internal.StatusBetweenRounds
	g.CurrentQuestion = nil
	g.Answers = make(map[string]*internal.Answer)
	g.Touch(e.now())

	ended := internal.Message[any]{
		Type: internal.EventQuestionEnded,
		Data: internal.QuestionEndedData{
			CorrectAnswer: correct,
			Results:       results,
			Scores:        copyScores(g.Scores),
			Streaks:       copyScores(g.Streaks),
			Leaderboard:   Leaderboard(g),
			Round:         g.Round,
		},
	}
	g.Mu.Unlock()

	e.gateway.Broadcast(pin, ended)
	log.Printf("[Engine.EndQuestion] Game %s round scored, %d results", pin, len(results))
}

// EndGame finalizes a game. Only the owning host may end it, and a
// completed game stays queryable but immutable.
func (e *Engine) EndGame(ctx context.Context, pin, token string) error {
	hostID, err := e.VerifyHost(ctx, token)
	if err != nil {
		return err
	}

	g, err := e.store.Get(pin)
	if err != nil {
		return err
	}

	g.Mu.Lock()
	if g.HostID != hostID {
		g.Mu.Unlock()
		return ErrNotHost
	}
	if g.Status == internal.StatusCompleted {
		g.Mu.Unlock()
		return ErrInvalidState
	}

	if g.Timer != nil {
		if g.Timer.Cancel != nil {
			g.Timer.Cancel()
		}
		g.Timer = nil
	}
	g.Status = internal.StatusCompleted
	g.CurrentQuestion = nil
	g.Answers = make(map[string]*internal.Answer)
	g.Touch(e.now())

	finished := internal.Message[any]{
		Type: internal.EventGameEnded,
		Data: internal.GameEndedData{
			FinalScores:  copyScores(g.Scores),
			FinalStreaks: copyScores(g.Streaks),
			Leaderboard:  Leaderboard(g),
			RoundsPlayed: g.Round,
		},
	}
	g.Mu.Unlock()

	e.gateway.Broadcast(pin, finished)
	e.source.Forget(pin)
	log.Printf("[Engine.EndGame] Game %s completed by host %s", pin, hostID)
	return nil
}

// Status returns a point-in-time snapshot of a game.
func (e *Engine) Status(pin string) (*internal.GameSnapshot, error) {
	g, err := e.store.Get(pin)
	if err != nil {
		return nil, err
	}

	g.Mu.RLock()
	defer g.Mu.RUnlock()

	players := make([]*internal.Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, p)
	}
	return &internal.GameSnapshot{
		Pin:         g.Pin,
		Status:      g.Status,
		PlayerCount: len(g.Players),
		Players:     players,
		Scores:      copyScores(g.Scores),
		Streaks:     copyScores(g.Streaks),
		Round:       g.Round,
		MaxPlayers:  g.MaxPlayers,
	}, nil
}

func copyScores(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
