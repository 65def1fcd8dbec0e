//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/database"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/jurisprudence"
	"github.com/hugh/ritum/internal/tasks"
	"github.com/hugh/ritum/pkg/config"
	"github.com/hugh/ritum/pkg/crypto"
	"github.com/hugh/ritum/pkg/queue"
	"github.com/hugh/ritum/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env, "")
	ctx := context.Background()

	if cfg.Encryption.Key == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			log.Fatalf("failed to generate encryption key: %v", err)
		}
		fmt.Printf("ENCRYPTION_KEY is not set. Add this line to .env:\nENCRYPTION_KEY=%s\n", key)
	}

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create demo lawyer
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry(), cfg.JWT.RefreshExpiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" {
		email = "advogado@ritum.io"
	}
	if password == "" {
		password = "senha123"
	}

	user, err := authService.Register(ctx, auth.RegisterInput{
		Email:     email,
		Password:  password,
		Name:      "Advogado Demo",
		OABNumber: "123456",
		OABState:  "SP",
		Address: models.Address{
			Street: "Av. Paulista",
			Number: "1000",
			City:   "São Paulo",
			State:  "SP",
		},
	})
	switch {
	case errors.Is(err, auth.ErrUserExists):
		fmt.Printf("Demo user already exists: %s\n", email)
	case err != nil:
		log.Fatalf("failed to create demo user: %v", err)
	default:
		fmt.Printf("Demo user created: %s / %s\n", user.Email, password)
	}

	// Seed jurisprudence samples
	n, err := jurisprudence.NewStore(db).Seed(ctx)
	if err != nil {
		log.Fatalf("failed to seed jurisprudence: %v", err)
	}
	fmt.Printf("Jurisprudence documents inserted: %d\n", n)

	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	info, err := client.EnqueueContext(ctx, tasks.NewJurisprudenceReindexTask())
	if err != nil {
		fmt.Printf("Reindex not enqueued: %v\n", err)
		return
	}
	fmt.Printf("Reindex enqueued: %s\n", info.ID)
}
