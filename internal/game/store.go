package game

import (
	"log"
	"sync"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
	"github.com/quizdash/quizdash-backend/internal/utils"
)

// pinAttempts bounds the collision retry loop in Create. With a six digit
// space and a handful of live games this never trips in practice.
const pinAttempts = 100

// Store owns the lifecycle of Game aggregates keyed by PIN. It guarantees a
// PIN maps to at most one live game; PINs are free for reuse after Delete.
type Store struct {
	mu    sync.RWMutex
	games map[string]*internal.Game
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]*internal.Game),
		now:   time.Now,
	}
}

// Create allocates a fresh PIN, builds a Game in the lobby state and
// registers it. Returns ErrPinExhausted if no unique PIN could be found.
func (s *Store) Create(hostID string) (*internal.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pin := ""
	for i := 0; i < pinAttempts; i++ {
		candidate := utils.GeneratePin(internal.PinLength)
		if _, taken := s.games[candidate]; !taken {
			pin = candidate
			break
		}
	}
	if pin == "" {
		return nil, ErrPinExhausted
	}

	now := s.now()
	g := &internal.Game{
		Pin:          pin,
		HostID:       hostID,
		Status:       internal.StatusLobby,
		CreatedAt:    now,
		Players:      make(map[string]*internal.Player),
		Scores:       make(map[string]int),
		Streaks:      make(map[string]int),
		Answers:      make(map[string]*internal.Answer),
		MaxPlayers:   internal.MaxPlayersPerGame,
		LastActivity: now,
	}
	s.games[pin] = g

	log.Printf("[Store.Create] Created game %s for host %s", pin, hostID)
	return g, nil
}

// Get returns the game for pin, or ErrGameNotFound.
func (s *Store) Get(pin string) (*internal.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[pin]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Exists reports whether pin maps to a live game.
func (s *Store) Exists(pin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[pin]
	return ok
}

// Delete removes the game and cancels any outstanding question timer.
// Deleting an unknown pin is a no-op.
func (s *Store) Delete(pin string) {
	s.mu.Lock()
	g, ok := s.games[pin]
	delete(s.games, pin)
	s.mu.Unlock()

	if !ok {
		return
	}

	g.Mu.Lock()
	if g.Timer != nil && g.Timer.Cancel != nil {
		g.Timer.Cancel()
		g.Timer = nil
	}
	g.Mu.Unlock()

	log.Printf("[Store.Delete] Removed game %s", pin)
}

// Len returns the number of live games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Sweep deletes games whose last activity is older than ttl and returns the
// removed pins. Completed games are always eligible; others only once idle.
func (s *Store) Sweep(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.RLock()
	stale := make([]string, 0)
	for pin, g := range s.games {
		g.Mu.RLock()
		idle := g.LastActivity.Before(cutoff)
		g.Mu.RUnlock()
		if idle {
			stale = append(stale, pin)
		}
	}
	s.mu.RUnlock()

	for _, pin := range stale {
		log.Printf("[Store.Sweep] Removing idle game %s", pin)
		s.Delete(pin)
	}
	return stale
}

// StartJanitor sweeps idle games every interval until stop is closed.
// onRemove, if non-nil, is called with each removed pin so callers can drop
// per-game state held elsewhere (the question cache in particular).
func (s *Store) StartJanitor(ttl, interval time.Duration, stop <-chan struct{}, onRemove func(pin string)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, pin := range s.Sweep(ttl) {
					if onRemove != nil {
						onRemove(pin)
					}
				}
			case <-stop:
				return
			}
		}
	}()
}
