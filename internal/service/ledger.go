// Package service — ownership and favorites ledger.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasetya/safestate/internal/catalog"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/repository"
)

// LedgerService tracks what each user has favorited, bought and rented.
//
// The membership sets in the store are the single source of truth for
// ownership. A property's own status field is display metadata and is never
// consulted to answer "does this user hold this property".
type LedgerService struct {
	users   repository.UserRepository
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(users repository.UserRepository, cat *catalog.Catalog, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		users:   users,
		catalog: cat,
		logger:  logger,
	}
}

// Portfolio is a user's holdings resolved against the catalog.
type Portfolio struct {
	Owned  []model.Property `json:"owned"`
	Rented []model.Property `json:"rented"`
}

// AddFavorite marks the property as a favorite of the user.
// The property must exist in the catalog; favoriting a phantom ID would
// leave an entry no listing page could ever render.
func (s *LedgerService) AddFavorite(ctx context.Context, userID, propertyID string) error {
	if _, err := s.catalog.ByID(propertyID); err != nil {
		return err
	}
	if err := s.users.AddFavorite(ctx, userID, propertyID); err != nil {
		return err
	}

	s.logger.Info("favorite added",
		slog.String("userID", userID),
		slog.String("propertyID", propertyID),
	)
	return nil
}

// RemoveFavorite unmarks a favorite.
func (s *LedgerService) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	if err := s.users.RemoveFavorite(ctx, userID, propertyID); err != nil {
		return err
	}

	s.logger.Info("favorite removed",
		slog.String("userID", userID),
		slog.String("propertyID", propertyID),
	)
	return nil
}

// FavoriteProperties resolves the user's favorites set against the catalog.
// IDs that no longer resolve (a delisted property) are skipped rather than
// failing the whole page.
func (s *LedgerService) FavoriteProperties(ctx context.Context, userID string) ([]model.Property, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.Many(user.Favorites), nil
}

// GrantOwnership records the property in the user's portfolio. kind says
// whether the property was bought or rented. Re-granting an already-held
// property keeps it held under the latest kind, never under both.
func (s *LedgerService) GrantOwnership(ctx context.Context, userID, propertyID string, kind model.HoldingKind) error {
	if _, err := s.catalog.ByID(propertyID); err != nil {
		return err
	}
	if err := s.users.GrantHolding(ctx, userID, propertyID, kind); err != nil {
		return err
	}

	s.logger.Info("holding granted",
		slog.String("userID", userID),
		slog.String("propertyID", propertyID),
		slog.String("kind", string(kind)),
	)
	return nil
}

// RevokeOwnership removes the property from the user's portfolio, whichever
// kind it was held under. Revoking an absent holding is a no-op.
func (s *LedgerService) RevokeOwnership(ctx context.Context, userID, propertyID string) error {
	if err := s.users.RevokeHolding(ctx, userID, propertyID); err != nil {
		return err
	}

	s.logger.Info("holding revoked",
		slog.String("userID", userID),
		slog.String("propertyID", propertyID),
	)
	return nil
}

// Portfolio returns the user's owned and rented properties resolved against
// the catalog.
func (s *LedgerService) Portfolio(ctx context.Context, userID string) (*Portfolio, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/ledger: loading portfolio for %s: %w", userID, err)
	}

	return &Portfolio{
		Owned:  s.catalog.Many(user.Owned),
		Rented: s.catalog.Many(user.Rented),
	}, nil
}
