package main

import (
	"context"
	"log"

	"drive-assistant-be/internal/bootstrap"
	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/server"
	"drive-assistant-be/internal/tracer"
	"drive-assistant-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: starting upload indexer...")
		if err := container.IndexerService.Consume(context.Background()); err != nil {
			log.Printf("Background indexer error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
