// This is the main entry point of the task management API.
// It loads configuration, connects to PostgreSQL (or an in-memory store),
// applies migrations, builds the router and serves it until SIGINT/SIGTERM,
// shutting down gracefully. The `migrate` command manages the schema on its own.
//
// @title Task Management API
// @version 1.0.0
// @description Multi-user task management: users, shared categories, personal tasks and statistics.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// `godotenv` loads environment variables from a .env file, useful for development.
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/taskmanager-go/categories"
	"github.com/user/taskmanager-go/config"
	"github.com/user/taskmanager-go/db"
	"github.com/user/taskmanager-go/memstore"
	"github.com/user/taskmanager-go/server"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

func main() {
	app := &cli.App{
		Name:  "taskmanager",
		Usage: "multi-user task management API",
		Before: func(*cli.Context) error {
			// In production, variables are usually set directly.
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Printf("Warning: error loading .env file: %v", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "keep all data in process memory instead of PostgreSQL",
					},
				},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "revert the most recent migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to revert"},
						},
						Action: migrateDown,
					},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	deps := server.Deps{Config: cfg}
	if c.Bool("in-memory") {
		log.Println("Using in-memory store; data is lost on exit.")
		mem := memstore.New()
		deps.Users, deps.Categories, deps.Tasks = mem.Users(), mem.Categories(), mem.Tasks()
	} else {
		if cfg.Server.MigrateOnStart {
			if err := db.RunMigrations(cfg.DB.URL); err != nil {
				return err
			}
		}
		pool, err := db.NewPool(cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		deps.Users = users.NewPostgresRepository(pool)
		deps.Categories = categories.NewPostgresRepository(pool)
		deps.Tasks = tasks.NewPostgresRepository(pool)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (env=%s)", addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}

func migrateUp(*cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return db.RunMigrations(cfg.DB.URL)
}

func migrateDown(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := db.RollbackMigrations(cfg.DB.URL, c.Int("steps")); err != nil {
		return err
	}
	log.Printf("Rolled back %d migration(s)", c.Int("steps"))
	return nil
}
