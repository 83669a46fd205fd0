package question

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
)

var ErrBankNotFound = errors.New("question bank not found")

// Bank is a named collection of questions curated by a host.
type Bank struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Questions   []internal.Question `json:"questions"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// BankStore keeps question banks and the per-game question cache in memory.
type BankStore struct {
	mu    sync.RWMutex
	banks map[string]*Bank
	seq   int

	gameCache map[string][]internal.Question
}

func NewBankStore() *BankStore {
	return &BankStore{
		banks:     make(map[string]*Bank),
		gameCache: make(map[string][]internal.Question),
	}
}

// CreateBank registers a new empty bank and returns its id.
func (s *BankStore) CreateBank(name, description string) *Bank {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := time.Now().UTC()
	b := &Bank{
		ID:          fmt.Sprintf("bank_%d", s.seq),
		Name:        name,
		Description: description,
		Questions:   make([]internal.Question, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.banks[b.ID] = b
	return b
}

// GetBank returns a copy of the bank with the given id.
func (s *BankStore) GetBank(id string) (Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.banks[id]
	if !ok {
		return Bank{}, ErrBankNotFound
	}
	out := *b
	out.Questions = append([]internal.Question(nil), b.Questions...)
	return out, nil
}

// AddQuestion appends q to the bank with the given id.
func (s *BankStore) AddQuestion(id string, q internal.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banks[id]
	if !ok {
		return ErrBankNotFound
	}
	b.Questions = append(b.Questions, q)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// CachedGameQuestions returns the question list previously assembled for a
// game, if any.
func (s *BankStore) CachedGameQuestions(gameID string) ([]internal.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qs, ok := s.gameCache[gameID]
	return qs, ok
}

// CacheGameQuestions stores the question list assembled for a game so the
// same game always sees the same questions.
func (s *BankStore) CacheGameQuestions(gameID string, qs []internal.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameCache[gameID] = qs
}
