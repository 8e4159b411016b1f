// seed creates the schema (if missing) and inserts a dev user with a
// full week of access windows into the local database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gcaccess/door-gateway/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
	seedName     = "Seed User"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    disabled      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS access_windows (
    user_id     BIGINT NOT NULL REFERENCES users (id),
    day_of_week INT NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
    start_time  TIME NOT NULL,
    end_time    TIME NOT NULL,
    PRIMARY KEY (user_id, day_of_week),
    CHECK (start_time <= end_time)
);
`

type seedWindow struct {
	day        int // 1 = Sunday .. 7 = Saturday
	start, end string
}

// Weekday office hours plus a short weekend window, so boundary testing
// against a live stack has something to hit every day.
var windows = []seedWindow{
	{1, "10:00:00", "12:00:00"},
	{2, "08:00:00", "17:00:00"},
	{3, "08:00:00", "17:00:00"},
	{4, "08:00:00", "17:00:00"},
	{5, "08:00:00", "17:00:00"},
	{6, "08:00:00", "17:00:00"},
	{7, "10:00:00", "12:00:00"},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		 RETURNING id`,
		seedEmail, string(hash), seedName,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("insert user: %v", err)
	}

	for _, w := range windows {
		_, err := pool.Exec(ctx,
			`INSERT INTO access_windows (user_id, day_of_week, start_time, end_time)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, day_of_week)
			 DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time`,
			userID, w.day, w.start, w.end,
		)
		if err != nil {
			log.Fatalf("insert window day %d: %v", w.day, err)
		}
	}

	fmt.Printf("seeded user %s (id %d) with %d access windows\n", seedEmail, userID, len(windows))
	fmt.Printf("login with: {\"email\": %q, \"password\": %q}\n", seedEmail, seedPassword)
}
