// Command seed populates the configured database with an admin account
// and demo content.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"nexafolio/internal/config"
	"nexafolio/internal/database"
	"nexafolio/internal/middleware"
	"nexafolio/internal/repository"
	"nexafolio/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.StringVar(&opts.AdminUsername, "admin-user", envOr("ADMIN_USERNAME", opts.AdminUsername), "admin username")
	flag.StringVar(&opts.AdminPassword, "admin-pass", envOr("ADMIN_PASSWORD", opts.AdminPassword), "admin password")
	flag.IntVar(&opts.NumProjects, "projects", opts.NumProjects, "number of demo projects")
	flag.IntVar(&opts.NumPosts, "posts", opts.NumPosts, "number of demo blog posts")
	flag.IntVar(&opts.NumMessages, "messages", opts.NumMessages, "number of demo messages")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required to seed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := seed.Store{
		Users:     repository.NewUserRepository(db),
		Projects:  repository.NewProjectRepository(db),
		BlogPosts: repository.NewBlogPostRepository(db),
		Messages:  repository.NewMessageRepository(db),
	}

	if err := seed.Run(context.Background(), store, opts, middleware.Logger); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
