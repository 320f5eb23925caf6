package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	"go.uber.org/zap"

	"parsr/api"
	"parsr/backend"
	"parsr/config"
	"parsr/search"
	"parsr/session"
	"parsr/storage"
	"parsr/web"
)

func main() {
	// =========
	// Profiling
	// =========
	go func() {
		http.ListenAndServe(":6060", nil)
	}()

	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	uiCfg, err := config.LoadUI(cfg.UIConfigPath)
	if err != nil {
		log.Fatalf("Failed to load UI config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Backend client
	// =========
	backendClient := backend.NewClient(cfg.BackendURL, logger)

	// =========
	// Direct search engine (optional)
	// =========
	var engine search.Engine
	if cfg.SerperAPIKey != "" {
		engine = search.NewSerperSearchEngine(cfg.SerperAPIKey)
	} else {
		logger.Info("SERPER_API_KEY not set, direct search route disabled")
	}

	// =========
	// Search history
	// =========
	history, err := storage.OpenHistory(cfg.HistoryPath)
	if err != nil {
		log.Fatalf("Failed to open history db: %v", err)
	}
	defer history.Close()

	// =========
	// Sessions
	// =========
	store := session.NewStore(func() *session.Controller {
		return session.NewController(backendClient, backendClient, cfg.CacheCapacity, 10, logger)
	}, session.DefaultIdleTTL)

	go func() {
		for range time.Tick(5 * time.Minute) {
			if removed := store.Sweep(); removed > 0 {
				logger.Info("swept idle sessions", zap.Int("removed", removed))
			}
		}
	}()

	// =========
	// HTTP server
	// =========
	pages := web.NewHandler(store, uiCfg, logger)
	server := api.NewServer(backendClient, engine, history, pages, logger, cfg.AppPort)
	log.Fatal(server.Start())
}
