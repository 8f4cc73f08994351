package main

import (
	"flag"
	"log"
	"net/http"

	"goblog/internal/auth"
	"goblog/internal/config"
	"goblog/internal/storage"
	"goblog/internal/storage/gormstore"
	"goblog/internal/storage/inmemory"
	"goblog/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	storageType := flag.String("storage", "in-memory", "storage backend (in-memory, sqlite or postgres)")
	flag.Parse()

	_ = godotenv.Load() // optionally load environment file

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	var store storage.Storage
	log.Printf("starting server with %s storage", *storageType)
	switch *storageType {
	case "postgres":
		if cfg.Postgres.DSN == "" {
			log.Fatal("DATABASE_URL must be set for postgres storage")
		}
		store, err = gormstore.NewPostgres(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
	case "sqlite":
		store, err = gormstore.NewSQLite(cfg.SQLite.Path)
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
	case "in-memory":
		store = inmemory.New()
	default:
		log.Fatalf("unknown storage type: %s", *storageType)
	}
	defer store.Close()

	manager := auth.NewManager(cfg.Server.SessionSecret, store)
	handler := web.New(store, manager)

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler.Routes()); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
