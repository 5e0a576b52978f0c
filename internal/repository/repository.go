package repository

import (
	"context"

	"github.com/prasetya/safestate/internal/model"
)

// UserRepository is the Record Store for user accounts and their ledgers.
//
// Mutations are explicit per-field operations rather than a generic partial
// merge: whether a call replaces a whole collection (SetFavorites) or touches
// a single member (AddFavorite, GrantHolding) is visible in the method name.
type UserRepository interface {
	// Create inserts a new user. Fails with apperror.ErrConflict when the
	// email is already registered; on success the user's ID and timestamps
	// are filled in and the membership sets start empty.
	Create(ctx context.Context, user *model.User) error

	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)

	// UpdateProfile replaces the user's mutable profile fields.
	UpdateProfile(ctx context.Context, id, username string, age int, city string) error

	// SetFavorites replaces the entire favorites set.
	SetFavorites(ctx context.Context, id string, propertyIDs []string) error
	// AddFavorite adds one property; apperror.ErrConflict if already present.
	AddFavorite(ctx context.Context, id, propertyID string) error
	// RemoveFavorite removes one property; apperror.ErrConflict if absent.
	RemoveFavorite(ctx context.Context, id, propertyID string) error

	// GrantHolding records that the user owns or rents a property. A repeat
	// grant of the same kind is a no-op; a grant of the other kind moves the
	// holding, so a property is never both owned and rented.
	GrantHolding(ctx context.Context, id, propertyID string, kind model.HoldingKind) error
	// RevokeHolding removes the property from the user's holdings
	// unconditionally, whichever kind it was.
	RevokeHolding(ctx context.Context, id, propertyID string) error

	// ReplacePayment stores a payment, superseding any earlier payment the
	// user made for the same property.
	ReplacePayment(ctx context.Context, id string, payment model.Payment) error
	ListPayments(ctx context.Context, id string) ([]model.Payment, error)
}
