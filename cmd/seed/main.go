package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sahilchouksey/college-hub/config"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(env.GO_ENV)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	store, err := database.StartGORM(env, zlog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize tables: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("College Hub - Database Seeding")
	fmt.Println(separator)

	if err := database.NewSeeder(store).SeedAll(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Seeding completed. Existing courses are never overwritten.")
	fmt.Println(separator)
}
