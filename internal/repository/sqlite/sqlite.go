// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — the whole user store lives in one file
// next to the binary, no server to run. That matches this system's model
// exactly: one local store, synchronous read-modify-write, no cross-process
// coordination. Tests use ":memory:" and never touch disk.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so there is no CGo
// and cross-compilation keeps working.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prasetya/safestate/internal/model"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection, not a pool. PRAGMAs apply per connection, and a
	// ":memory:" database exists per connection: a second pooled
	// connection would see an empty schema. SQLite serializes writes
	// anyway, so a single connection costs nothing here.
	conn.SetMaxOpenConns(1)

	// Ping forces an immediate connection so a bad path fails here,
	// not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the ledger tables reference
	// users and must not outlive them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to run
// on every startup.
//
// SCHEMA NOTES:
//   - favorites and holdings key on (user_id, property_id), so set membership
//     is structural: inserting a duplicate favorite conflicts, and a property
//     can be held as owned OR rented but never both.
//   - payments also keys on (user_id, property_id): paying again for the same
//     property REPLACES the earlier payment instead of appending a duplicate.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			age           INTEGER NOT NULL DEFAULT 0,
			city          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			property_id TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, property_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS holdings (
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			property_id TEXT NOT NULL,
			kind        TEXT NOT NULL CHECK (kind IN ('owned', 'rented')),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, property_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating holdings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			property_id         TEXT NOT NULL,
			type                TEXT NOT NULL,
			method              TEXT NOT NULL DEFAULT '',
			plan                TEXT NOT NULL DEFAULT '',
			amount              INTEGER NOT NULL,
			paid_at             DATETIME NOT NULL,
			next_payment_at     DATETIME,
			next_payment_amount INTEGER,
			PRIMARY KEY (user_id, property_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating payments table: %w", err)
	}

	return nil
}

// seedUser is the bootstrap document shape: a user record with a plain
// membership layout matching the model's JSON tags, plus the bcrypt hash.
type seedUser struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	Age          int      `json:"age"`
	City         string   `json:"city"`
	Favorites    []string `json:"favorites"`
	Owned        []string `json:"ownedProperties"`
	Rented       []string `json:"rentedProperties"`
}

// SeedFromFile loads bootstrap users from a JSON document, but only when the
// users table is still empty — an existing store is never overwritten.
func (db *DB) SeedFromFile(path string) error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sqlite: reading seed file: %w", err)
	}

	var seeds []seedUser
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("sqlite: parsing seed file: %w", err)
	}

	ctx := context.Background()
	for _, s := range seeds {
		user := &model.User{
			ID:           s.ID,
			Username:     s.Username,
			Email:        s.Email,
			PasswordHash: s.PasswordHash,
			Age:          s.Age,
			City:         s.City,
		}
		if err := db.insertUser(ctx, user); err != nil {
			return fmt.Errorf("sqlite: seeding user %s: %w", s.Email, err)
		}
		for _, pid := range s.Favorites {
			if err := db.AddFavorite(ctx, user.ID, pid); err != nil {
				return fmt.Errorf("sqlite: seeding favorite %s for %s: %w", pid, s.Email, err)
			}
		}
		for _, pid := range s.Owned {
			if err := db.GrantHolding(ctx, user.ID, pid, model.HoldingOwned); err != nil {
				return fmt.Errorf("sqlite: seeding holding %s for %s: %w", pid, s.Email, err)
			}
		}
		for _, pid := range s.Rented {
			if err := db.GrantHolding(ctx, user.ID, pid, model.HoldingRented); err != nil {
				return fmt.Errorf("sqlite: seeding holding %s for %s: %w", pid, s.Email, err)
			}
		}
	}

	return nil
}
