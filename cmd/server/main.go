package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitspend/splitspend/internal/auth"
	"github.com/splitspend/splitspend/internal/config"
	"github.com/splitspend/splitspend/internal/server"
	"github.com/splitspend/splitspend/internal/service"
	"github.com/splitspend/splitspend/internal/storage/sqlite"
	"github.com/splitspend/splitspend/pkg/logging"
)

func main() {
	// A .env file is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	userService := service.NewUserService(store, auth.NewBcryptHasher())
	groupService := service.NewGroupService(store)

	handler := server.New(userService, groupService).Handler()

	// Wrap with h2c to serve HTTP/2 without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
