package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/javierbuenopatience/patience-backend/config"
	"github.com/javierbuenopatience/patience-backend/internal/application"
	"github.com/javierbuenopatience/patience-backend/pkg/password"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := application.NormalizeEmail("demo@patience.dev")
	name := "Demo User"
	plain := "password123"

	hasher := password.NewHasher(cfg.BcryptCost)
	digest, err := hasher.Hash(plain)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (email, name, hashed_password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, name, digest).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s name=%s password=%s\n", id, email, name, plain)
}
