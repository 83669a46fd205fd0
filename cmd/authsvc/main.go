package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/quizdash/quizdash-backend/internal/auth"
)

const releaseVersion = "1.0.0"

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := auth.LoadConfig()
	if err != nil {
		log.Fatalf("[authsvc] %v", err)
	}

	var store auth.HostStore
	if cfg.DatabaseURL != "" {
		pg, err := auth.NewPGStore(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[authsvc] %v", err)
		}
		defer pg.Close()
		store = pg
		log.Println("[authsvc] Using Postgres host store")
	} else {
		store = auth.NewMemStore()
		log.Println("[authsvc] DATABASE_URL not set, using in-memory host store")
	}

	svc := auth.NewService(store, auth.NewTokenIssuer(cfg.JWTSecret), releaseVersion)

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	log.Printf("[authsvc] Listening on %s", addr)
	if err := http.ListenAndServe(addr, svc.RegisterRoutes()); err != nil {
		log.Fatalf("[authsvc] %v", err)
	}
}
