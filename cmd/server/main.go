/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payoff scheduling server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and the optional TOML config file
  2. Initialize SQLite store
  3. Pick the plan result cache (Redis when configured, memory otherwise)
  4. Wire the plan service and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file path (optional; defaults apply when absent)
  -port    HTTP server port (overrides config when set)
  -db      SQLite database path (overrides config when set)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close cache and database connections
  4. Exit

EXAMPLES:
  # Run with defaults (payoff.db, port 8080, memory cache)
  ./server

  # Run with a config file and a Redis result cache
  ./server -config=payoff.toml

  # Run with in-memory database on a different port
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/config.go: File format and defaults
  - api/server.go: Router configuration
  - plan/service.go: Plan computation pipeline
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payoff-engine/api"
	"github.com/warp/payoff-engine/cache"
	"github.com/warp/payoff-engine/config"
	"github.com/warp/payoff-engine/plan"
	"github.com/warp/payoff-engine/store/sqlite"
)

func main() {
	// Flags
	cfgPath := flag.String("config", "", "TOML config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Result cache: Redis when configured, in-process memory otherwise.
	var planCache cache.Cache
	if cfg.Cache.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.Cache.RedisAddr, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
		defer redisCache.Close()
		planCache = redisCache
		log.Printf("Using Redis result cache at %s", cfg.Cache.RedisAddr)
	} else {
		planCache = cache.NewMemory()
	}

	// Wire the plan service and handler
	planService := plan.NewService(store, planCache, cfg.Engine.PeriodCap)
	handler := api.NewHandler(store, planService)
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
