// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the admin user (admin@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/config"
	"blog-backend/internal/db"
	postdomain "blog-backend/internal/post/domain"
	postrepo "blog-backend/internal/post/repository"
	"blog-backend/internal/security"
	userdomain "blog-backend/internal/user/domain"
	userrepo "blog-backend/internal/user/repository"
)

const (
	adminEmail  = "admin@example.com"
	devEmail    = "dev@example.com"
	devPassword = "Passw0rd!dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	posts := postrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	admin := &userdomain.User{
		ID:            uuid.New(),
		Name:          "Admin User",
		Email:         adminEmail,
		PasswordHash:  passwordHash,
		Role:          userdomain.RoleAdmin,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin user: %v", err)
	}

	dev := &userdomain.User{
		ID:            uuid.New(),
		Name:          "Dev User",
		Email:         devEmail,
		PasswordHash:  passwordHash,
		Role:          userdomain.RoleUser,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, dev); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	samples := []struct {
		title   string
		content string
		author  uuid.UUID
	}{
		{"Welcome to the blog", "This is the first post. Log in as dev@example.com to write your own.", admin.ID},
		{"Getting started", "Create posts via POST /api/posts with a title and content. Your posts are listed at GET /api/posts/my.", admin.ID},
		{"Hello from the dev user", "A sample post owned by the dev account, handy for testing ownership checks.", dev.ID},
	}
	for _, s := range samples {
		p := &postdomain.Post{
			ID:        uuid.New(),
			Title:     s.title,
			Content:   s.content,
			AuthorID:  s.author,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := posts.Create(ctx, p); err != nil {
			log.Fatalf("create post %q: %v", s.title, err)
		}
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Admin login: %s / %s\n", adminEmail, devPassword)
	fmt.Printf("Dev login:   %s / %s\n", devEmail, devPassword)
}
