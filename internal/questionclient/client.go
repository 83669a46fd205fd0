// Package questionclient implements the engine's QuestionSource against the
// question service's per-game question endpoint.
package questionclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
	"github.com/quizdash/quizdash-backend/internal/game"
	"github.com/quizdash/quizdash-backend/internal/question"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	lists map[string][]internal.Question // per-game, fetched once
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		lists:   make(map[string][]internal.Question),
	}
}

// Next returns the question for the given round, fetching and caching the
// game's question list on first use. Rounds past the end of the list wrap
// around. A failed fetch falls back to the built-in question set so a
// running game is never stranded without a question.
func (c *Client) Next(ctx context.Context, criteria game.QuestionCriteria) (*internal.Question, error) {
	c.mu.Lock()
	list, ok := c.lists[criteria.Pin]
	c.mu.Unlock()

	if !ok {
		fetched, err := c.fetch(ctx, criteria.Pin, criteria.HostToken)
		if err != nil {
			log.Printf("[questionclient] Fetch for game %s failed, using fallback set: %v", criteria.Pin, err)
			fetched = question.FallbackQuestions()
		}
		c.mu.Lock()
		c.lists[criteria.Pin] = fetched
		list = fetched
		c.mu.Unlock()
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no questions available for game %s", criteria.Pin)
	}

	q := list[(criteria.Round-1)%len(list)]
	return &q, nil
}

// Forget drops the cached list for a finished game.
func (c *Client) Forget(pin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, pin)
}

func (c *Client) fetch(ctx context.Context, pin, token string) ([]internal.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions/game/"+pin, nil)
	if err != nil {
		return nil, fmt.Errorf("build questions request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question service returned status %d", resp.StatusCode)
	}

	var questions []internal.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
