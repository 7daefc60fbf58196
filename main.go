package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/proposal-vote/cliparse"
	"github.com/danielhkuo/proposal-vote/db"
	"github.com/danielhkuo/proposal-vote/journal"
	"github.com/danielhkuo/proposal-vote/logging"
	"github.com/danielhkuo/proposal-vote/middleware"
	"github.com/danielhkuo/proposal-vote/router"
	"github.com/danielhkuo/proposal-vote/sessions"
	"github.com/danielhkuo/proposal-vote/voting"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(1)
	}

	// Pick the journal
	var store sessions.Store
	if cfg.DatabaseType == "memory" {
		store = journal.NewMemoryStore()
		slog.Warn("using in-memory journal; sessions are lost on exit")
	} else {
		dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
		store = journal.NewSQLStore(dbConn)
	}

	// Replay the journal
	manager := sessions.NewManager(store, logger, voting.WithEventBuffer(cfg.EventBuffer))
	restored, err := manager.Restore(context.Background())
	if err != nil {
		slog.Error("journal replay failed", "error", err)
		os.Exit(1)
	}
	slog.Info("sessions restored", "count", restored)

	// Create router
	mux := router.NewRouter(manager)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
