package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/quizdash/quizdash-backend/internal/authclient"
	"github.com/quizdash/quizdash-backend/internal/question"
)

const releaseVersion = "1.0.0"

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := question.LoadConfig()
	if err != nil {
		log.Fatalf("[questionsvc] %v", err)
	}

	svc := question.NewService(
		question.NewBankStore(),
		question.NewOpenTDBClient(cfg.OpenTDBURL),
		authclient.New(cfg.AuthServiceURL),
		releaseVersion,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	log.Printf("[questionsvc] Listening on %s (auth=%s)", addr, cfg.AuthServiceURL)
	if err := http.ListenAndServe(addr, svc.RegisterRoutes()); err != nil {
		log.Fatalf("[questionsvc] %v", err)
	}
}
