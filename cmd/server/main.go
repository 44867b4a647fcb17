package main

import (
	"context"
	"log"

	"github.com/avelkov/draftforge/internal/server"
	"github.com/avelkov/draftforge/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; provider keys usually live there in development
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
