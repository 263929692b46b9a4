package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ledgerpress/ledgerpress/config"
	"github.com/ledgerpress/ledgerpress/db"
	_ "github.com/ledgerpress/ledgerpress/docs"
	"github.com/ledgerpress/ledgerpress/handlers"
)

// @title           LedgerPress API
// @version         1.0.0
// @description     API for managing clients, quotations, invoices, and rendered PDF documents.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure structured logging
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB and auth credentials for handlers
	handlers.DB = database
	handlers.AuthUser = cfg.AuthUser
	handlers.AuthPass = cfg.AuthPass

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth)

		// Clients
		r.Get("/clients", handlers.ListClients)
		r.Post("/clients", handlers.CreateClient)
		r.Get("/clients/{id}", handlers.GetClient)
		r.Put("/clients/{id}", handlers.UpdateClient)
		r.Delete("/clients/{id}", handlers.DeleteClient)

		// Documents (quotations and invoices)
		r.Get("/documents", handlers.ListDocuments)
		r.Post("/documents", handlers.CreateDocument)
		r.Get("/documents/{id}", handlers.GetDocument)
		r.Put("/documents/{id}", handlers.UpdateDocument)
		r.Delete("/documents/{id}", handlers.DeleteDocument)
		r.Get("/documents/{id}/pdf", handlers.RenderDocumentPDF)

		// Company settings
		r.Get("/settings", handlers.GetSettings)
		r.Put("/settings", handlers.UpdateSettings)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
