package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
			team_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			admin_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		ALTER TABLE users DROP CONSTRAINT IF EXISTS users_team_id_fkey;
		ALTER TABLE users
			ADD CONSTRAINT users_team_id_fkey
			FOREIGN KEY (team_id) REFERENCES teams(id)
			ON DELETE SET NULL;

		-- The UNIQUE on user_id is what enforces one team per user.
		CREATE TABLE IF NOT EXISTS team_members (
			team_id TEXT NOT NULL REFERENCES teams(id),
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
			joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (team_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS join_requests (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL REFERENCES teams(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'accepted', 'denied')),
			requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			resolved_at TIMESTAMPTZ
		);

		-- At most one pending request per (team, user) pair.
		CREATE UNIQUE INDEX IF NOT EXISTS join_requests_pending_pair
			ON join_requests (team_id, user_id)
			WHERE status = 'pending';

		CREATE TABLE IF NOT EXISTS redeemables (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			cost INTEGER NOT NULL CHECK (cost > 0),
			available BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS basket_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			redeemable_id TEXT NOT NULL REFERENCES redeemables(id),
			points_spent INTEGER NOT NULL CHECK (points_spent > 0),
			redeemed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS basket_entries_user_idx
			ON basket_entries (user_id, redeemed_at DESC);
		CREATE INDEX IF NOT EXISTS join_requests_team_idx
			ON join_requests (team_id, status);
	`

	_, err := conn.Exec(ctx, schema)
	return err
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS basket_entries;
		DROP TABLE IF EXISTS redeemables;
		DROP TABLE IF EXISTS join_requests;
		DROP TABLE IF EXISTS team_members;
		ALTER TABLE IF EXISTS users DROP CONSTRAINT IF EXISTS users_team_id_fkey;
		DROP TABLE IF EXISTS teams;
		DROP TABLE IF EXISTS users;
	`)
	return err
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO users (id, username, email, points) VALUES
			('user-amman-1', 'layla', 'layla@example.com', 120),
			('user-amman-2', 'omar', 'omar@example.com', 45),
			('user-amman-3', 'rania', 'rania@example.com', 0)
		ON CONFLICT (id) DO NOTHING;

		INSERT INTO redeemables (id, name, cost, available) VALUES
			('rdm-bottle', 'Water Bottle', 30, true),
			('rdm-tshirt', 'T-Shirt', 80, true),
			('rdm-tree', 'Plant a Tree', 50, true),
			('rdm-mug', 'Mug', 30, false)
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}
