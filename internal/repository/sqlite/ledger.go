package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
)

// AddFavorite marks a property as favorited by the user.
// Returns apperror.ErrConflict when it already is.
func (db *DB) AddFavorite(ctx context.Context, userID, propertyID string) error {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND property_id = ?`,
		userID, propertyID,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking favorite: %w", err)
	}
	if exists == 1 {
		return apperror.AlreadyFavorited(propertyID)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO favorites (user_id, property_id) VALUES (?, ?)`,
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding favorite %s for user %s: %w", propertyID, userID, err)
	}
	return nil
}

// RemoveFavorite unmarks a favorited property.
// Returns apperror.ErrConflict when the property was not favorited.
func (db *DB) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND property_id = ?`,
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite %s for user %s: %w", propertyID, userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFavorited(propertyID)
	}
	return nil
}

// SetFavorites replaces the user's whole favorites set in one transaction.
func (db *DB) SetFavorites(ctx context.Context, userID string, propertyIDs []string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing favorites for user %s: %w", userID, err)
	}
	for _, pid := range propertyIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO favorites (user_id, property_id) VALUES (?, ?)`,
			userID, pid,
		); err != nil {
			return fmt.Errorf("sqlite: writing favorite %s for user %s: %w", pid, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing favorites: %w", err)
	}
	return nil
}

// GrantHolding records the property in the user's portfolio under the given
// kind. The primary key keeps a property held under at most one kind: a
// repeat grant of the same kind is a no-op, and a grant of the other kind
// moves the holding so the latest confirmed transaction wins. Renting and
// then buying must leave the property owned, not rented.
func (db *DB) GrantHolding(ctx context.Context, userID, propertyID string, kind model.HoldingKind) error {
	if !model.ValidKind(kind) {
		return apperror.ValidationFailed("kind", fmt.Sprintf("unknown holding kind %q", kind))
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO holdings (user_id, property_id, kind) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, property_id) DO UPDATE SET kind = excluded.kind`,
		userID, propertyID, string(kind),
	)
	if err != nil {
		return fmt.Errorf("sqlite: granting %s holding %s for user %s: %w", kind, propertyID, userID, err)
	}
	return nil
}

// RevokeHolding removes the property from the user's portfolio regardless of
// which kind it was held under. Revoking an absent holding is a no-op.
func (db *DB) RevokeHolding(ctx context.Context, userID, propertyID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM holdings WHERE user_id = ? AND property_id = ?`,
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: revoking holding %s for user %s: %w", propertyID, userID, err)
	}
	return nil
}

// ReplacePayment upserts the payment record for (user, property). A second
// purchase of the same property supersedes the first record rather than
// appending to the history.
func (db *DB) ReplacePayment(ctx context.Context, userID string, payment model.Payment) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO payments
			(user_id, property_id, type, method, plan, amount, paid_at, next_payment_at, next_payment_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, property_id) DO UPDATE SET
			type = excluded.type,
			method = excluded.method,
			plan = excluded.plan,
			amount = excluded.amount,
			paid_at = excluded.paid_at,
			next_payment_at = excluded.next_payment_at,
			next_payment_amount = excluded.next_payment_amount`,
		userID,
		payment.PropertyID,
		string(payment.Type),
		payment.Method,
		payment.Plan,
		payment.Amount,
		payment.Date,
		payment.NextPaymentDate,
		payment.NextPaymentAmount,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording payment for %s by user %s: %w", payment.PropertyID, userID, err)
	}
	return nil
}

// ListPayments returns the user's payment records in the order they were
// first written. ON CONFLICT DO UPDATE keeps the original rowid, so a
// superseded payment stays in its original position.
func (db *DB) ListPayments(ctx context.Context, userID string) ([]model.Payment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT property_id, type, method, plan, amount, paid_at, next_payment_at, next_payment_amount
		 FROM payments WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing payments for user %s: %w", userID, err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		var typ string
		if err := rows.Scan(
			&p.PropertyID, &typ, &p.Method, &p.Plan,
			&p.Amount, &p.Date, &p.NextPaymentDate, &p.NextPaymentAmount,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning payment row: %w", err)
		}
		p.Type = model.PaymentType(typ)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating payments: %w", err)
	}
	return payments, nil
}

// listFavorites returns the user's favorite property IDs in insertion order.
func (db *DB) listFavorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT property_id FROM favorites WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// listHoldings splits the user's holdings into owned and rented ID lists.
func (db *DB) listHoldings(ctx context.Context, userID string) (owned, rented []string, err error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT property_id, kind FROM holdings WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: listing holdings for user %s: %w", userID, err)
	}
	defer rows.Close()

	owned = []string{}
	rented = []string{}
	for rows.Next() {
		var id, kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return nil, nil, fmt.Errorf("sqlite: scanning holding row: %w", err)
		}
		switch model.HoldingKind(kind) {
		case model.HoldingRented:
			rented = append(rented, id)
		default:
			owned = append(owned, id)
		}
	}
	return owned, rented, rows.Err()
}
