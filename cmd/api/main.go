package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/avetrov/go-shop-api/internal/app/api"
)

func main() {
	// Missing .env is fine; containers inject the environment directly.
	_ = godotenv.Load()
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("shop API failed: %v", err)
	}
}
