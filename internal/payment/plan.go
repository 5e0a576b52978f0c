// Package payment computes payment plans for property purchases and rentals.
//
// Everything in this package is pure arithmetic over raw rupiah integers —
// no storage, no HTTP, no clock beyond the instant the caller passes in.
// The service layer builds a Quote here, shows it to the user, and only
// persists the embedded Payment record after confirmation.
//
// ROUNDING:
// All percentages floor toward zero, and the installment split floors ONCE,
// at the division. Go's integer division on non-negative operands already
// truncates toward zero, so writing the whole expression as one integer
// division (price*20/300 for the 3x plan) gives exactly floor((P×0.20)/3).
package payment

import (
	"fmt"
	"time"

	"github.com/prasetya/safestate/internal/apperror"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/money"
)

// Option is the top-level payment choice a buyer makes.
type Option string

const (
	// OptionDownPayment pays 20% of the price, in full or in installments.
	OptionDownPayment Option = "downPayment"
	// OptionEarnestMoney pays 5% of the price as a good-faith deposit.
	OptionEarnestMoney Option = "earnestMoney"
	// OptionFlatEarnest is the legacy "uang tanda jadi" path: a flat
	// Rp20.000.000 regardless of price.
	OptionFlatEarnest Option = "utj"
	// OptionRental pays the security deposit plus the first month of rent.
	OptionRental Option = "rental"
)

// Plan is the installment scheme for a down payment.
type Plan string

const (
	PlanFull Plan = "full"
	Plan3x   Plan = "3x"
	Plan5x   Plan = "5x"
)

const (
	// FlatEarnestAmount is the fixed legacy UTJ deposit.
	FlatEarnestAmount int64 = 20_000_000

	// rentalUpfrontMonths covers the security deposit plus the first month.
	rentalUpfrontMonths = 2
)

// DownPaymentFull returns floor(price × 0.20).
func DownPaymentFull(price int64) int64 {
	return price * 20 / 100
}

// DownPayment3x returns floor((price × 0.20) / 3), flooring once at the division.
func DownPayment3x(price int64) int64 {
	return price * 20 / (100 * 3)
}

// DownPayment5x returns floor((price × 0.20) / 5), flooring once at the division.
func DownPayment5x(price int64) int64 {
	return price * 20 / (100 * 5)
}

// EarnestMoney returns floor(price × 0.05).
func EarnestMoney(price int64) int64 {
	return price * 5 / 100
}

// RemainingAfterDownPayment is the balance left once the 20% down payment is
// settled, regardless of whether it was paid in full or split into
// installments: price − floor(price × 0.20).
func RemainingAfterDownPayment(price int64) int64 {
	return price - DownPaymentFull(price)
}

// MonthlyRent resolves the rent for a rental listing: the monthly price when
// the catalog has one, otherwise the listing price itself.
func MonthlyRent(p *model.Property) int64 {
	if p.PricePerMonth > 0 {
		return p.PricePerMonth
	}
	return p.Price
}

// RentalDue is the upfront rental total: security deposit + first month.
func RentalDue(monthlyRent int64) int64 {
	return rentalUpfrontMonths * monthlyRent
}

// Quote is a candidate payment, not yet persisted. The caller shows the
// display strings to the user and hands Payment to the ledger only after the
// user confirms.
type Quote struct {
	PropertyID       string        `json:"propertyId"`
	Option           Option        `json:"option"`
	Plan             Plan          `json:"plan,omitempty"`
	Amount           int64         `json:"amount"`
	Remaining        int64         `json:"remaining"`
	AmountDisplay    string        `json:"amountDisplay"`
	RemainingDisplay string        `json:"remainingDisplay"`
	Payment          model.Payment `json:"payment"`
}

// BuildQuote computes the amount due for a property under the given option
// and plan, and assembles the candidate Payment record.
//
// Rules:
//   - downPayment requires a plan (full/3x/5x); every other option must
//     leave the plan empty.
//   - 3x/5x plans schedule the next installment one month after now, for the
//     same amount.
//   - rental ignores the plan and uses 2 × monthly rent; earnest options use
//     5% or the flat legacy amount.
func BuildQuote(p *model.Property, opt Option, plan Plan, method string, now time.Time) (*Quote, error) {
	if p.Price < 0 {
		return nil, apperror.ValidationFailed("price", "property price must not be negative")
	}

	q := &Quote{
		PropertyID: p.ID,
		Option:     opt,
		Plan:       plan,
	}

	switch opt {
	case OptionDownPayment:
		amount, installments, err := downPaymentAmount(p.Price, plan)
		if err != nil {
			return nil, err
		}
		q.Amount = amount
		q.Remaining = RemainingAfterDownPayment(p.Price)
		q.Payment = model.Payment{
			PropertyID: p.ID,
			Type:       model.PaymentDownPayment,
			Date:       now,
			Method:     method,
			Plan:       string(plan),
			Amount:     amount,
		}
		if installments > 1 {
			next := now.AddDate(0, 1, 0)
			nextAmount := amount
			q.Payment.NextPaymentDate = &next
			q.Payment.NextPaymentAmount = &nextAmount
		}

	case OptionEarnestMoney:
		if plan != "" {
			return nil, apperror.ValidationFailed("plan", "earnest money has no installment plan")
		}
		q.Amount = EarnestMoney(p.Price)
		q.Remaining = p.Price - q.Amount
		q.Payment = model.Payment{
			PropertyID: p.ID,
			Type:       model.PaymentEarnestMoney,
			Date:       now,
			Method:     method,
			Amount:     q.Amount,
		}

	case OptionFlatEarnest:
		if plan != "" {
			return nil, apperror.ValidationFailed("plan", "uang tanda jadi has no installment plan")
		}
		q.Amount = FlatEarnestAmount
		q.Remaining = p.Price - FlatEarnestAmount
		q.Payment = model.Payment{
			PropertyID: p.ID,
			Type:       model.PaymentEarnestMoney,
			Date:       now,
			Method:     method,
			Amount:     FlatEarnestAmount,
		}

	case OptionRental:
		if plan != "" {
			return nil, apperror.ValidationFailed("plan", "rental has no installment plan")
		}
		q.Amount = RentalDue(MonthlyRent(p))
		q.Remaining = 0
		q.Payment = model.Payment{
			PropertyID: p.ID,
			Type:       model.PaymentRentalDeposit,
			Date:       now,
			Method:     method,
			Amount:     q.Amount,
		}

	default:
		return nil, apperror.ValidationFailed("option",
			fmt.Sprintf("unknown payment option %q", opt))
	}

	q.AmountDisplay = money.FormatRupiah(q.Amount)
	q.RemainingDisplay = money.FormatRupiah(q.Remaining)
	return q, nil
}

// HoldingKindFor maps a payment option to the holding it grants on
// confirmation: rentals grant a rented holding, everything else owned.
func HoldingKindFor(opt Option) model.HoldingKind {
	if opt == OptionRental {
		return model.HoldingRented
	}
	return model.HoldingOwned
}

func downPaymentAmount(price int64, plan Plan) (amount int64, installments int, err error) {
	switch plan {
	case PlanFull:
		return DownPaymentFull(price), 1, nil
	case Plan3x:
		return DownPayment3x(price), 3, nil
	case Plan5x:
		return DownPayment5x(price), 5, nil
	case "":
		return 0, 0, apperror.ValidationFailed("plan", "down payment requires a plan: full, 3x or 5x")
	default:
		return 0, 0, apperror.ValidationFailed("plan",
			fmt.Sprintf("unknown down payment plan %q", plan))
	}
}
