// Package seed fills the store with an admin account and demo content
// for development environments.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nexafolio/internal/auth"
	"nexafolio/internal/models"
	"nexafolio/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Options configuration for the seeder
type Options struct {
	AdminUsername string
	AdminPassword string
	NumProjects   int
	NumPosts      int
	NumMessages   int
}

// DefaultOptions returns a small, presentable demo dataset.
func DefaultOptions() Options {
	return Options{
		AdminUsername: "admin",
		AdminPassword: "admin",
		NumProjects:   6,
		NumPosts:      4,
		NumMessages:   3,
	}
}

// Store groups the repositories the seeder writes through, so the same
// seeder works against the database and the in-memory store.
type Store struct {
	Users     repository.UserRepository
	Projects  repository.ProjectRepository
	BlogPosts repository.BlogPostRepository
	Messages  repository.MessageRepository
}

var tagPool = []string{
	"go", "typescript", "react", "postgres", "redis", "docker",
	"fiber", "grpc", "aws", "terraform", "svelte", "websockets",
}

// Run seeds the store. The admin account is created only if the
// username is not already taken, so Run is safe to call on every boot.
func Run(ctx context.Context, store Store, opts Options, log *slog.Logger) error {
	if err := ensureAdmin(ctx, store, opts, log); err != nil {
		return err
	}

	for i := 0; i < opts.NumProjects; i++ {
		project := &models.Project{
			Title:       gofakeit.AppName(),
			Description: gofakeit.Sentence(12),
			ImageURL:    fmt.Sprintf("/uploads/demo-project-%d.webp", i+1),
			ProjectURL:  gofakeit.URL(),
			GithubURL:   "https://github.com/" + gofakeit.Username() + "/" + gofakeit.Word(),
			Tags:        pickTags(2 + i%3),
			Featured:    i < 2,
			Priority:    opts.NumProjects - i,
		}
		if err := store.Projects.Create(ctx, project); err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
	}

	for i := 0; i < opts.NumPosts; i++ {
		title := capitalize(strings.TrimSuffix(gofakeit.HipsterSentence(4), "."))
		post := &models.BlogPost{
			Title:   title,
			Content: gofakeit.Paragraph(3, 4, 12, "\n\n"),
			Slug:    fmt.Sprintf("%s-%d", slugify(title), i+1),
			Tags:    pickTags(1 + i%3),
		}
		if err := store.BlogPosts.Create(ctx, post); err != nil {
			return fmt.Errorf("seed blog post: %w", err)
		}
	}

	for i := 0; i < opts.NumMessages; i++ {
		msg := &models.Message{
			Name:    gofakeit.Name(),
			Email:   gofakeit.Email(),
			Subject: gofakeit.Sentence(5),
			Message: gofakeit.Paragraph(1, 3, 10, " "),
		}
		if err := store.Messages.Create(ctx, msg); err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}

	log.Info("seed complete",
		slog.Int("projects", opts.NumProjects),
		slog.Int("posts", opts.NumPosts),
		slog.Int("messages", opts.NumMessages))
	return nil
}

func ensureAdmin(ctx context.Context, store Store, opts Options, log *slog.Logger) error {
	existing, err := store.Users.GetByUsername(ctx, opts.AdminUsername)
	if err != nil {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	if existing != nil {
		log.Info("admin user already present", slog.String("username", opts.AdminUsername))
		return nil
	}

	hashed, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	user := &models.User{
		Username: opts.AdminUsername,
		Password: hashed,
		Role:     "admin",
	}
	if err := store.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Info("admin user created", slog.String("username", opts.AdminUsername))
	return nil
}

func pickTags(n int) models.Tags {
	if n > len(tagPool) {
		n = len(tagPool)
	}
	tags := make(models.Tags, 0, n)
	seen := map[string]bool{}
	for len(tags) < n {
		tag := tagPool[gofakeit.Number(0, len(tagPool)-1)]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// slugify lowercases the title and collapses runs of non-alphanumerics
// into single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
