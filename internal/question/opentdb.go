package question

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
)

const defaultOpenTDBURL = "https://opentdb.com/api.php"

// OpenTDBClient fetches trivia questions from the Open Trivia Database.
type OpenTDBClient struct {
	baseURL string
	http    *http.Client
}

func NewOpenTDBClient(baseURL string) *OpenTDBClient {
	if baseURL == "" {
		baseURL = defaultOpenTDBURL
	}
	return &OpenTDBClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type opentdbResponse struct {
	ResponseCode int             `json:"response_code"`
	Results      []opentdbResult `json:"results"`
}

type opentdbResult struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch pulls up to amount questions, optionally filtered by category and
// difficulty, reformatted into the shared Question shape.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, category, difficulty string) ([]internal.Question, error) {
	params := url.Values{}
	params.Set("amount", fmt.Sprintf("%d", amount))
	if category != "" {
		params.Set("category", category)
	}
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build opentdb request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch opentdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var body opentdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	if body.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", body.ResponseCode)
	}

	questions := make([]internal.Question, 0, len(body.Results))
	for _, raw := range body.Results {
		questions = append(questions, formatOpenTDB(raw))
	}
	return questions, nil
}

// formatOpenTDB merges the correct and incorrect answers, shuffles them and
// records where the correct one landed. Text arrives HTML-escaped.
func formatOpenTDB(raw opentdbResult) internal.Question {
	options := make([]string, 0, len(raw.IncorrectAnswers)+1)
	options = append(options, html.UnescapeString(raw.CorrectAnswer))
	for _, wrong := range raw.IncorrectAnswers {
		options = append(options, html.UnescapeString(wrong))
	}

	correct := 0
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	return internal.Question{
		Text:          html.UnescapeString(raw.Question),
		Options:       options,
		CorrectAnswer: correct,
		Category:      raw.Category,
		Difficulty:    internal.QuestionDifficulty(raw.Difficulty),
		Source:        "opentdb",
	}
}
