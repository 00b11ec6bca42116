package main

import (
	"log"

	"github.com/BeatricePi/MeinePraxisKI/internal/bootstrap"
	"github.com/BeatricePi/MeinePraxisKI/internal/config"
	"github.com/BeatricePi/MeinePraxisKI/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Logger.Sync()

	// 3. Initialize Server
	srv := server.New(cfg, container)

	// 4. Run Server
	log.Fatal(srv.Run())
}
