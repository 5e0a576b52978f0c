package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
)

// =========================================================================
// PLAN ARITHMETIC
// =========================================================================

func TestDownPaymentAmounts(t *testing.T) {
	// The one-billion reference scenario.
	const price = int64(1_000_000_000)

	if got := DownPaymentFull(price); got != 200_000_000 {
		t.Errorf("DownPaymentFull(%d) = %d, want 200000000", price, got)
	}
	if got := DownPayment3x(price); got != 66_666_666 {
		t.Errorf("DownPayment3x(%d) = %d, want 66666666", price, got)
	}
	if got := DownPayment5x(price); got != 40_000_000 {
		t.Errorf("DownPayment5x(%d) = %d, want 40000000", price, got)
	}
	if got := EarnestMoney(price); got != 50_000_000 {
		t.Errorf("EarnestMoney(%d) = %d, want 50000000", price, got)
	}
	if got := RemainingAfterDownPayment(price); got != 800_000_000 {
		t.Errorf("RemainingAfterDownPayment(%d) = %d, want 800000000", price, got)
	}
}

func TestDownPaymentPlusRemainingEqualsPrice(t *testing.T) {
	// For all P ≥ 0: full down payment + remaining == P.
	prices := []int64{0, 1, 7, 99, 12_345, 550_000_000, 1_000_000_000, 987_654_321_123}
	for _, p := range prices {
		if got := DownPaymentFull(p) + RemainingAfterDownPayment(p); got != p {
			t.Errorf("DownPaymentFull(%d)+Remaining(%d) = %d, want %d", p, p, got, p)
		}
	}
}

func TestInstallmentFloorsOnceAtTheDivision(t *testing.T) {
	// 1,000,000,000 × 0.20 / 3 = 66,666,666.66… → 66,666,666 (floor).
	// A price that isn't a multiple of 5 also exercises the single floor:
	// 7 × 0.20 / 3 = 0.4666… → 0.
	if got := DownPayment3x(7); got != 0 {
		t.Errorf("DownPayment3x(7) = %d, want 0", got)
	}
	if got := DownPayment5x(1_000_000_001); got != 40_000_000 {
		t.Errorf("DownPayment5x(1000000001) = %d, want 40000000", got)
	}
}

func TestMonthlyRentFallsBackToPrice(t *testing.T) {
	withMonthly := &model.Property{Price: 900_000_000, PricePerMonth: 5_000_000}
	if got := MonthlyRent(withMonthly); got != 5_000_000 {
		t.Errorf("MonthlyRent = %d, want pricePerMonth 5000000", got)
	}

	withoutMonthly := &model.Property{Price: 6_000_000}
	if got := MonthlyRent(withoutMonthly); got != 6_000_000 {
		t.Errorf("MonthlyRent = %d, want price 6000000", got)
	}
}

func TestRentalDue(t *testing.T) {
	// Deposit + first month = 2 × monthly rent.
	if got := RentalDue(5_000_000); got != 10_000_000 {
		t.Errorf("RentalDue(5000000) = %d, want 10000000", got)
	}
}

// =========================================================================
// QUOTES
// =========================================================================

func testProperty() *model.Property {
	return &model.Property{
		ID:     "prop-001",
		Name:   "Green Garden Residence",
		Status: model.StatusForSale,
		Price:  1_000_000_000,
	}
}

func TestBuildQuote_DownPaymentFull(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	q, err := BuildQuote(testProperty(), OptionDownPayment, PlanFull, "credit", now)
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}

	if q.Amount != 200_000_000 {
		t.Errorf("Amount = %d, want 200000000", q.Amount)
	}
	if q.Remaining != 800_000_000 {
		t.Errorf("Remaining = %d, want 800000000", q.Remaining)
	}
	if q.AmountDisplay != "Rp200.000.000" {
		t.Errorf("AmountDisplay = %q, want %q", q.AmountDisplay, "Rp200.000.000")
	}
	if q.Payment.Type != model.PaymentDownPayment {
		t.Errorf("Payment.Type = %q, want downPayment", q.Payment.Type)
	}
	// Full payment schedules nothing further.
	if q.Payment.NextPaymentDate != nil || q.Payment.NextPaymentAmount != nil {
		t.Error("full payment should not schedule a next installment")
	}
}

func TestBuildQuote_InstallmentSchedulesNextPayment(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	q, err := BuildQuote(testProperty(), OptionDownPayment, Plan3x, "debit", now)
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}

	if q.Amount != 66_666_666 {
		t.Errorf("Amount = %d, want 66666666", q.Amount)
	}
	if q.Payment.NextPaymentDate == nil || q.Payment.NextPaymentAmount == nil {
		t.Fatal("3x installment should schedule the next payment")
	}
	wantNext := now.AddDate(0, 1, 0)
	if !q.Payment.NextPaymentDate.Equal(wantNext) {
		t.Errorf("NextPaymentDate = %v, want %v", q.Payment.NextPaymentDate, wantNext)
	}
	if *q.Payment.NextPaymentAmount != 66_666_666 {
		t.Errorf("NextPaymentAmount = %d, want 66666666", *q.Payment.NextPaymentAmount)
	}
}

func TestBuildQuote_EarnestMoney(t *testing.T) {
	q, err := BuildQuote(testProperty(), OptionEarnestMoney, "", "credit", time.Now())
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}
	if q.Amount != 50_000_000 {
		t.Errorf("Amount = %d, want 50000000", q.Amount)
	}
	if q.Remaining != 950_000_000 {
		t.Errorf("Remaining = %d, want 950000000", q.Remaining)
	}
	if q.Payment.Type != model.PaymentEarnestMoney {
		t.Errorf("Payment.Type = %q, want earnestMoney", q.Payment.Type)
	}
}

func TestBuildQuote_FlatEarnestIgnoresPrice(t *testing.T) {
	q, err := BuildQuote(testProperty(), OptionFlatEarnest, "", "credit", time.Now())
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}
	if q.Amount != FlatEarnestAmount {
		t.Errorf("Amount = %d, want flat %d", q.Amount, FlatEarnestAmount)
	}
	if q.Remaining != 980_000_000 {
		t.Errorf("Remaining = %d, want 980000000", q.Remaining)
	}
}

func TestBuildQuote_Rental(t *testing.T) {
	p := &model.Property{
		ID:            "prop-010",
		Status:        model.StatusForRent,
		Price:         900_000_000,
		PricePerMonth: 5_000_000,
	}

	q, err := BuildQuote(p, OptionRental, "", "debit", time.Now())
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}
	if q.Amount != 10_000_000 {
		t.Errorf("Amount = %d, want 10000000", q.Amount)
	}
	if q.Payment.Type != model.PaymentRentalDeposit {
		t.Errorf("Payment.Type = %q, want rentalDeposit", q.Payment.Type)
	}
}

func TestBuildQuote_Validation(t *testing.T) {
	tests := []struct {
		name   string
		option Option
		plan   Plan
	}{
		{"down payment without plan", OptionDownPayment, ""},
		{"down payment with unknown plan", OptionDownPayment, "7x"},
		{"earnest money with plan", OptionEarnestMoney, PlanFull},
		{"rental with plan", OptionRental, Plan3x},
		{"unknown option", "barter", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuote(testProperty(), tt.option, tt.plan, "credit", time.Now())
			if err == nil {
				t.Fatal("BuildQuote() should have failed")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestHoldingKindFor(t *testing.T) {
	if got := HoldingKindFor(OptionRental); got != model.HoldingRented {
		t.Errorf("HoldingKindFor(rental) = %q, want rented", got)
	}
	if got := HoldingKindFor(OptionDownPayment); got != model.HoldingOwned {
		t.Errorf("HoldingKindFor(downPayment) = %q, want owned", got)
	}
	if got := HoldingKindFor(OptionFlatEarnest); got != model.HoldingOwned {
		t.Errorf("HoldingKindFor(utj) = %q, want owned", got)
	}
}
