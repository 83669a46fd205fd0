package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Service exposes host registration, login and token verification.
type Service struct {
	store   HostStore
	issuer  *TokenIssuer
	version string
}

func NewService(store HostStore, issuer *TokenIssuer, version string) *Service {
	return &Service{store: store, issuer: issuer, version: version}
}

func (s *Service) RegisterRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/host/register", s.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/host/login", s.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/host/verify", s.VerifyHandler).Methods(http.MethodPost)

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
		"service":   "auth",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"features": map[string]bool{
			"jwt_auth":        true,
			"host_management": true,
		},
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Service.RegisterHandler] bcrypt failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	host := Host{
		ID:           generateHostID(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateHost(r.Context(), host); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("[Service.RegisterHandler] store failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Host registered successfully",
		"host_id": host.ID,
	})
}

func (s *Service) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	host, err := s.store.GetHostByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and bad password
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword(host.PasswordHash, []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issuer.Mint(host.ID, host.Email)
	if err != nil {
		log.Printf("[Service.LoginHandler] mint failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"host_id": host.ID,
	})
}

func (s *Service) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	token := strings.TrimPrefix(header, "Bearer ")

	hostID, err := s.issuer.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"host_id": hostID,
	})
}

func generateHostID() string {
	return "host_" + uuid.NewString()
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
