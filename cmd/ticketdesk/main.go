package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ticketdesk-io/ticketdesk/internal/api"
	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/config"
	"github.com/ticketdesk-io/ticketdesk/internal/database"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPathFlag string

var rootCmd = &cobra.Command{
	Use:     "ticketdesk",
	Short:   "TicketDesk - internal ticket tracking service",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations, seed default accounts and start the API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default accounts into an empty users table",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", ".", "Directory containing config.yaml")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if err := config.Load(configPathFlag); err != nil {
		return nil, err
	}
	cfg := config.Get()
	if cfg.Auth.JWT.Secret == "" {
		cfg.Auth.JWT.Secret = "default-secret-change-in-production"
		log.Println("WARNING: Using default JWT secret. Change this in production!")
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db, auth.NewPasswordHasher()); err != nil {
		return err
	}

	router := api.NewRouter(db, cfg)
	router.SetupRoutes()

	addr := cfg.Server.GetServerAddr()
	log.Printf("Starting TicketDesk server on %s (env: %s)", addr, cfg.App.Env)
	return router.GetEngine().Run(addr)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database schema is up to date")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db, auth.NewPasswordHasher()); err != nil {
		return err
	}
	fmt.Println("Default accounts are in place")
	return nil
}
