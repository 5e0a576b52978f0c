package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/payment"
)

// fixedNow pins the clock so date assertions are exact.
var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestPaymentService(t *testing.T, repo *fakeUserRepo) *PaymentService {
	t.Helper()
	return NewPaymentServiceWithClock(repo, testCatalog(), testLogger(), func() time.Time { return fixedNow })
}

// =========================================================================
// QUOTE TESTS
// =========================================================================

func TestQuote_DownPayment3x(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)

	// house-001 is priced at Rp1,000,000,000
	quote, err := svc.Quote(context.Background(), "house-001", payment.OptionDownPayment, payment.Plan3x, "bankTransfer")
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	if quote.Amount != 66_666_666 {
		t.Errorf("Amount = %d, want 66666666", quote.Amount)
	}
	if quote.Remaining != 800_000_000 {
		t.Errorf("Remaining = %d, want 800000000", quote.Remaining)
	}
	if quote.AmountDisplay != "Rp66.666.666" {
		t.Errorf("AmountDisplay = %q, want Rp66.666.666", quote.AmountDisplay)
	}
}

func TestQuote_UnknownProperty(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)

	_, err := svc.Quote(context.Background(), "no-such-listing", payment.OptionDownPayment, payment.PlanFull, "cash")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Quote() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// CONFIRM TESTS
// =========================================================================

func TestConfirm_DownPaymentGrantsOwned(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)
	ctx := context.Background()

	receipt, err := svc.Confirm(ctx, user.ID, "house-001", payment.OptionDownPayment, payment.Plan3x, "bankTransfer")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	if receipt.Kind != model.HoldingOwned {
		t.Errorf("Kind = %q, want owned", receipt.Kind)
	}
	if receipt.Payment.Amount != 66_666_666 {
		t.Errorf("Amount = %d, want 66666666", receipt.Payment.Amount)
	}
	if receipt.PaidAt != "15/03/2026" {
		t.Errorf("PaidAt = %q, want 15/03/2026", receipt.PaidAt)
	}
	if receipt.Payment.NextPaymentDate == nil {
		t.Fatal("3x plan should carry a next payment date")
	}
	wantNext := fixedNow.AddDate(0, 1, 0)
	if !receipt.Payment.NextPaymentDate.Equal(wantNext) {
		t.Errorf("NextPaymentDate = %v, want %v", receipt.Payment.NextPaymentDate, wantNext)
	}

	// Side effects: one payment recorded, property now owned.
	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(stored.Payments))
	}
	if len(stored.Owned) != 1 || stored.Owned[0] != "house-001" {
		t.Errorf("Owned = %v, want [house-001]", stored.Owned)
	}
}

func TestConfirm_RentalGrantsRented(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)
	ctx := context.Background()

	// apartment-002 rents at Rp5,000,000/month: deposit + first month
	receipt, err := svc.Confirm(ctx, user.ID, "apartment-002", payment.OptionRental, "", "eWallet")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	if receipt.Kind != model.HoldingRented {
		t.Errorf("Kind = %q, want rented", receipt.Kind)
	}
	if receipt.Payment.Amount != 10_000_000 {
		t.Errorf("Amount = %d, want 10000000", receipt.Payment.Amount)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if len(stored.Rented) != 1 || stored.Rented[0] != "apartment-002" {
		t.Errorf("Rented = %v, want [apartment-002]", stored.Rented)
	}
}

// A down payment needs a plan; confirming without one must write nothing.
func TestConfirm_DownPaymentWithoutPlan(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, user.ID, "house-001", payment.OptionDownPayment, "", "cash")
	if err == nil {
		t.Fatal("Confirm() should reject a down payment with no plan")
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if len(stored.Payments) != 0 || len(stored.Owned) != 0 {
		t.Errorf("failed confirm left side effects: payments=%v owned=%v",
			stored.Payments, stored.Owned)
	}
}

func TestConfirm_MissingMethod(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)

	_, err := svc.Confirm(context.Background(), user.ID, "house-001", payment.OptionDownPayment, payment.PlanFull, "")
	if err == nil {
		t.Fatal("Confirm() should reject an empty payment method")
	}
}

// Re-purchasing the same property supersedes the earlier payment; the
// sequence length stays the same.
func TestConfirm_RepurchaseSupersedes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, user.ID, "house-001", payment.OptionDownPayment, payment.Plan3x, "bankTransfer"); err != nil {
		t.Fatalf("Confirm() first error = %v", err)
	}
	if _, err := svc.Confirm(ctx, user.ID, "house-001", payment.OptionDownPayment, payment.PlanFull, "creditCard"); err != nil {
		t.Fatalf("Confirm() second error = %v", err)
	}

	payments, err := svc.Payments(ctx, user.ID)
	if err != nil {
		t.Fatalf("Payments() error = %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1 (supersede, not append)", len(payments))
	}
	if payments[0].Amount != 200_000_000 {
		t.Errorf("Amount = %d, want 200000000 (the full down payment)", payments[0].Amount)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if len(stored.Owned) != 1 {
		t.Errorf("Owned = %v, want a single holding", stored.Owned)
	}
}

// Renting a property and later buying it must leave the store consistent:
// the payment becomes a down payment and the holding moves from rented to
// owned. Nothing may stay listed under both kinds.
func TestConfirm_RentThenBuyMovesHolding(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, user.ID, "apartment-002", payment.OptionRental, "", "eWallet"); err != nil {
		t.Fatalf("Confirm(rental) error = %v", err)
	}

	// apartment-002 is also listed for sale at Rp600,000,000
	receipt, err := svc.Confirm(ctx, user.ID, "apartment-002", payment.OptionDownPayment, payment.PlanFull, "bankTransfer")
	if err != nil {
		t.Fatalf("Confirm(downPayment) error = %v", err)
	}
	if receipt.Kind != model.HoldingOwned {
		t.Errorf("Kind = %q, want owned", receipt.Kind)
	}
	if receipt.Payment.Amount != 120_000_000 {
		t.Errorf("Amount = %d, want 120000000", receipt.Payment.Amount)
	}

	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(stored.Rented) != 0 {
		t.Errorf("Rented = %v, want empty after the purchase", stored.Rented)
	}
	if len(stored.Owned) != 1 || stored.Owned[0] != "apartment-002" {
		t.Errorf("Owned = %v, want [apartment-002]", stored.Owned)
	}
	if len(stored.Payments) != 1 || stored.Payments[0].Type != model.PaymentDownPayment {
		t.Errorf("payments = %+v, want a single downPayment record", stored.Payments)
	}
}

func TestConfirm_FlatEarnest(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestPaymentService(t, repo)
	user := registerTestUser(t, repo)

	// villa-003 costs Rp2,500,000,000; UTJ is flat regardless
	receipt, err := svc.Confirm(context.Background(), user.ID, "villa-003", payment.OptionFlatEarnest, "", "bankTransfer")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if receipt.Payment.Amount != payment.FlatEarnestAmount {
		t.Errorf("Amount = %d, want %d", receipt.Payment.Amount, payment.FlatEarnestAmount)
	}
	if receipt.Kind != model.HoldingOwned {
		t.Errorf("Kind = %q, want owned", receipt.Kind)
	}
}
