package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todos/internal/config"
	"todos/internal/handler"
	"todos/internal/hub"
	"todos/internal/observability/jsonlog"
	"todos/internal/repository/backend"
	"todos/internal/service"
	"todos/internal/watcher"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	backendName := flag.String("backend", "", "Storage backend: memory, sqlite or postgres (overrides config)")
	db := flag.String("db", "", "SQLite database path or Postgres URL, depending on backend")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting todos server...")

	cfg, loadedFrom, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded: %s", loadedFrom)
	} else {
		log.Println("No config file found, using defaults")
	}

	applyFlags(cfg, *addr, *backendName, *db)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	log.Printf("Config: %s", cfg.Summary())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repository
	repo, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Storage.Backend, err)
	}
	defer repo.Close()
	log.Printf("Storage ready: %s", cfg.Storage.Backend)

	// Event bus feeds the SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go sseHub.Forward(ctx, eventChan)

	todoSvc := service.NewTodoService(repo, eventBus)

	// Setup routes
	mux := http.NewServeMux()
	handler.NewTodoHandler(todoSvc).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /readyz", handler.Readyz(todoSvc))

	// Middleware that can be reconfigured at runtime
	cors := handler.NewCORS(cfg.CORS.AllowedOrigins)
	var accessJSON *jsonlog.Logger
	if cfg.Log.Format == "json" {
		accessJSON = jsonlog.New(os.Stdout)
	}
	requestLog := handler.NewRequestLogger(nil, accessJSON)
	requestLog.SetEnabled(cfg.Log.LogRequests())

	finalHandler := handler.Chain(mux,
		handler.RequestID,
		requestLog.Middleware,
		handler.Recover,
		cors.Middleware,
	)

	// Hot reload of CORS origins and request logging
	if loadedFrom != "" {
		go func() {
			err := watcher.WatchConfig(ctx, loadedFrom, func(next *config.Config) {
				cors.SetAllowedOrigins(next.CORS.AllowedOrigins)
				requestLog.SetEnabled(next.Log.LogRequests())
				log.Printf("Config reloaded: %d CORS origins, request log %t",
					len(next.CORS.AllowedOrigins), next.Log.LogRequests())
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Printf("Server error: %v", err)
		stop()
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// loadConfig reads the config from an explicit path or the standard locations
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		return config.Load()
	}
	cfg, path, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.ApplyEnv()
	return cfg, path, nil
}

// applyFlags lets command line flags win over file and environment
func applyFlags(cfg *config.Config, addr, backendName, db string) {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if backendName != "" {
		cfg.Storage.Backend = config.Backend(backendName)
	}
	if db == "" {
		return
	}
	if cfg.Storage.Backend == config.BackendPostgres {
		cfg.Storage.URL = db
	} else {
		cfg.Storage.Path = db
	}
}
