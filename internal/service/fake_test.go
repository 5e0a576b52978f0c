package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/auth"
	"github.com/prasetya/safestate/internal/catalog"
	"github.com/prasetya/safestate/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake (not a mock framework) keeps these tests dependency
// free: what the fake does is exactly what you read here.
type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int
	// set to a non-nil error to simulate a storage failure
	createErr  error
	getByIDErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*model.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.EmailConflict(user.Email)
		}
	}
	user.ID = fmt.Sprintf("user-fake-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.Favorites = []string{}
	user.Owned = []string{}
	user.Rented = []string{}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id, username string, age int, city string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Username = username
	u.Age = age
	u.City = city
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) SetFavorites(ctx context.Context, id string, propertyIDs []string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Favorites = append([]string{}, propertyIDs...)
	return nil
}

func (f *fakeUserRepo) AddFavorite(ctx context.Context, id, propertyID string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	for _, fav := range u.Favorites {
		if fav == propertyID {
			return apperror.AlreadyFavorited(propertyID)
		}
	}
	u.Favorites = append(u.Favorites, propertyID)
	return nil
}

func (f *fakeUserRepo) RemoveFavorite(ctx context.Context, id, propertyID string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	for i, fav := range u.Favorites {
		if fav == propertyID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return nil
		}
	}
	return apperror.NotFavorited(propertyID)
}

func (f *fakeUserRepo) GrantHolding(ctx context.Context, id, propertyID string, kind model.HoldingKind) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	// Mirrors the sqlite upsert: one holding per property, latest kind wins.
	u.Owned = remove(u.Owned, propertyID)
	u.Rented = remove(u.Rented, propertyID)
	if kind == model.HoldingRented {
		u.Rented = append(u.Rented, propertyID)
	} else {
		u.Owned = append(u.Owned, propertyID)
	}
	return nil
}

func (f *fakeUserRepo) RevokeHolding(ctx context.Context, id, propertyID string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Owned = remove(u.Owned, propertyID)
	u.Rented = remove(u.Rented, propertyID)
	return nil
}

func (f *fakeUserRepo) ReplacePayment(ctx context.Context, id string, payment model.Payment) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	for i := range u.Payments {
		if u.Payments[i].PropertyID == payment.PropertyID {
			u.Payments[i] = payment
			return nil
		}
	}
	u.Payments = append(u.Payments, payment)
	return nil
}

func (f *fakeUserRepo) ListPayments(ctx context.Context, id string) ([]model.Payment, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return append([]model.Payment{}, u.Payments...), nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// testLogger discards output; tests assert on behavior, not log lines.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func newTestAccountService(t *testing.T, repo *fakeUserRepo) *AccountService {
	t.Helper()
	return NewAccountService(repo, newTestTokens(t), auth.NewPasswordServiceForTest(bcrypt.MinCost), testLogger())
}

// testCatalog is a small fixed property set shared by the ledger and
// payment tests.
func testCatalog() *catalog.Catalog {
	return catalog.New([]model.Property{
		{
			ID:       "house-001",
			Name:     "Rumah Asri Menteng",
			Location: "Jakarta Pusat",
			Type:     "house",
			Status:   model.StatusForSale,
			Price:    1_000_000_000,
		},
		{
			ID:            "apartment-002",
			Name:          "Apartemen Sudirman Suites",
			Location:      "Jakarta Selatan",
			Type:          "apartment",
			Status:        model.StatusForRent,
			Price:         600_000_000,
			PricePerMonth: 5_000_000,
		},
		{
			ID:       "villa-003",
			Name:     "Villa Puncak Sejuk",
			Location: "Bogor",
			Type:     "villa",
			Status:   model.StatusForSale,
			Price:    2_500_000_000,
		},
	})
}
