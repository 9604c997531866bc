package main

import (
	"context"
	"log"

	"ei-coach-be/internal/bootstrap"
	"ei-coach-be/internal/config"
	"ei-coach-be/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Persist Consumer Service...")
		if err := container.PersistConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Persist Consumer Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
