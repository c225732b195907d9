package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ticketdesk-io/ticketdesk/internal/api"
	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/config"
	"github.com/ticketdesk-io/ticketdesk/internal/database"
)

// Thin bootstrap for containerized deployments; the ticketdesk CLI is the
// richer entry point.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()

	if cfg.Auth.JWT.Secret == "" {
		cfg.Auth.JWT.Secret = "default-secret-change-in-production"
		log.Println("WARNING: Using default JWT secret. Change this in production!")
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db, auth.NewPasswordHasher()); err != nil {
		log.Fatalf("Failed to seed default users: %v", err)
	}

	router := api.NewRouter(db, cfg)
	router.SetupRoutes()

	addr := cfg.Server.GetServerAddr()
	log.Printf("Starting TicketDesk server on %s (env: %s)", addr, cfg.App.Env)
	log.Fatal(router.GetEngine().Run(addr))
}
