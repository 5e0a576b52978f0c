package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/repository"
	"github.com/rs/xid"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user.
//
// The email-uniqueness check runs as its own SELECT first so the caller gets
// a clean EmailConflict instead of a driver-specific constraint error; the
// UNIQUE index on email remains as the backstop.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	var existing string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, user.Email,
	).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up email %s: %w", user.Email, err)
	}
	if existing != "" {
		return apperror.EmailConflict(user.Email)
	}

	return db.insertUser(ctx, user)
}

// insertUser writes the row, generating an ID only when the caller didn't
// bring one (bootstrap seeds carry their own IDs).
func (db *DB) insertUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, age, city, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Age,
		user.City,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	// New users start with empty sets, not nil — callers range and append
	// without nil checks, and JSON renders [] rather than null.
	user.Favorites = []string{}
	user.Owned = []string{}
	user.Rented = []string{}

	return nil
}

// GetByID retrieves a user with their favorites, holdings and payments.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := db.scanUser(ctx, `WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	if err := db.attachSets(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by their login email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := db.scanUser(ctx, `WHERE email = ?`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}
	if err := db.attachSets(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List returns every user with their membership sets attached.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, email, password_hash, age, city, created_at, updated_at
		 FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Age, &u.City, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	for i := range users {
		if err := db.attachSets(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateProfile replaces the mutable profile fields.
// RowsAffected distinguishes "no such user" from success.
func (db *DB) UpdateProfile(ctx context.Context, id, username string, age int, city string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, age = ?, city = ?, updated_at = ? WHERE id = ?`,
		username, age, city, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

func (db *DB) scanUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, age, city, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Age, &u.City, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// attachSets fills in the user's favorites, holdings and payments.
// Insertion order is preserved so the sets read back the way they were built.
func (db *DB) attachSets(ctx context.Context, u *model.User) error {
	favorites, err := db.listFavorites(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Favorites = favorites

	owned, rented, err := db.listHoldings(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Owned = owned
	u.Rented = rented

	payments, err := db.ListPayments(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Payments = payments

	return nil
}
