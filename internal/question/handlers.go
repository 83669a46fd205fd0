package question

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/quizdash/quizdash-backend/internal"
)

// gameQuestionCount is how many questions get assembled per game.
const gameQuestionCount = 5

// Verifier is the subset of the auth client the question service needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Service serves question banks and external trivia sources.
type Service struct {
	store    *BankStore
	opentdb  *OpenTDBClient
	verifier Verifier
	version  string
}

func NewService(store *BankStore, opentdb *OpenTDBClient, verifier Verifier, version string) *Service {
	return &Service{
		store:    store,
		opentdb:  opentdb,
		verifier: verifier,
		version:  version,
	}
}

func (s *Service) RegisterRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/questions/bank", s.CreateBankHandler).Methods(http.MethodPost)
	r.HandleFunc("/questions/bank/{id}", s.GetBankHandler).Methods(http.MethodGet)
	r.HandleFunc("/questions/bank/{id}/questions", s.AddQuestionHandler).Methods(http.MethodPost)
	r.HandleFunc("/questions/external/opentdb", s.OpenTDBHandler).Methods(http.MethodGet)
	r.HandleFunc("/questions/game/{gameID}", s.GameQuestionsHandler).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   s.version,
		"service":   "question",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"features": map[string]bool{
			"question_banks": true,
			"external_apis":  true,
		},
	})
}

// requireHost authenticates the request's bearer token and returns the host
// id, or writes a 401 and returns false.
func (s *Service) requireHost(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "Missing or invalid token")
		return "", false
	}
	hostID, err := s.verifier.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid host token")
		return "", false
	}
	return hostID, true
}

type createBankRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) CreateBankHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireHost(w, r); !ok {
		return
	}

	var req createBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	bank := s.store.CreateBank(req.Name, req.Description)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     bank.ID,
		"status": "created",
	})
}

func (s *Service) GetBankHandler(w http.ResponseWriter, r *http.Request) {
	bank, err := s.store.GetBank(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Question bank not found")
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

func (s *Service) AddQuestionHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireHost(w, r); !ok {
		return
	}

	var q internal.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question data")
		return
	}
	if q.Text == "" || len(q.Options) < 2 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		writeError(w, http.StatusBadRequest, "Invalid question data")
		return
	}

	if err := s.store.AddQuestion(mux.Vars(r)["id"], q); err != nil {
		if errors.Is(err, ErrBankNotFound) {
			writeError(w, http.StatusNotFound, "Question bank not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Service) OpenTDBHandler(w http.ResponseWriter, r *http.Request) {
	amount := 10
	if v := r.URL.Query().Get("amount"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 50 {
			writeError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		amount = parsed
	}

	questions, err := s.opentdb.Fetch(r.Context(), amount,
		r.URL.Query().Get("category"), r.URL.Query().Get("difficulty"))
	if err != nil {
		log.Printf("[Service.OpenTDBHandler] fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch questions")
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// GameQuestionsHandler assembles and caches the question list for a game.
// External fetch failures fall back to the built-in set so the list is never
// empty.
func (s *Service) GameQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireHost(w, r); !ok {
		return
	}

	gameID := mux.Vars(r)["gameID"]
	if cached, ok := s.store.CachedGameQuestions(gameID); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	questions, err := s.opentdb.Fetch(r.Context(), gameQuestionCount, "", "")
	if err != nil {
		log.Printf("[Service.GameQuestionsHandler] opentdb failed for game %s: %v", gameID, err)
		questions = nil
	}
	if len(questions) < gameQuestionCount {
		questions = append(questions, FallbackQuestions()[:gameQuestionCount-len(questions)]...)
	}

	s.store.CacheGameQuestions(gameID, questions)
	writeJSON(w, http.StatusOK, questions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
