// Package service — purchase orchestration.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prasetya/safestate/internal/catalog"
	"github.com/prasetya/safestate/internal/model"
	"github.com/prasetya/safestate/internal/money"
	"github.com/prasetya/safestate/internal/payment"
	"github.com/prasetya/safestate/internal/repository"
)

// PaymentService turns a priced quote into a persisted payment plus a
// holding. The calculator itself stays pure; this service owns the side
// effects around it.
type PaymentService struct {
	users   repository.UserRepository
	catalog *catalog.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewPaymentService creates a PaymentService. The clock defaults to
// time.Now; tests override it through NewPaymentServiceWithClock.
func NewPaymentService(users repository.UserRepository, cat *catalog.Catalog, logger *slog.Logger) *PaymentService {
	return NewPaymentServiceWithClock(users, cat, logger, time.Now)
}

// NewPaymentServiceWithClock creates a PaymentService with an injected
// clock, so tests can pin "today" and assert exact dates.
func NewPaymentServiceWithClock(users repository.UserRepository, cat *catalog.Catalog, logger *slog.Logger, now func() time.Time) *PaymentService {
	return &PaymentService{
		users:   users,
		catalog: cat,
		logger:  logger,
		now:     now,
	}
}

// Receipt is the outcome of a confirmed purchase.
type Receipt struct {
	PropertyID    string            `json:"propertyId"`
	PropertyName  string            `json:"propertyName"`
	Kind          model.HoldingKind `json:"kind"`
	Payment       model.Payment     `json:"payment"`
	AmountDisplay string            `json:"amountDisplay"`
	PaidAt        string            `json:"paidAt"`
}

// Quote prices a payment option for a property without persisting anything.
func (s *PaymentService) Quote(ctx context.Context, propertyID string, opt payment.Option, plan payment.Plan, method string) (*payment.Quote, error) {
	prop, err := s.catalog.ByID(propertyID)
	if err != nil {
		return nil, err
	}
	return payment.BuildQuote(prop, opt, plan, method, s.now())
}

// Confirm drives the whole checkout: validate the selection through the
// flow state machine, persist the payment, grant the holding.
//
// The order matters for failure behavior. The quote is built first so
// nothing is written when the selection is invalid. The payment lands
// before the holding, so a crash between the two leaves a paid-but-not-yet-
// granted record, which a retried Confirm repairs (ReplacePayment upserts
// and GrantHolding is idempotent).
func (s *PaymentService) Confirm(ctx context.Context, userID, propertyID string, opt payment.Option, plan payment.Plan, method string) (*Receipt, error) {
	prop, err := s.catalog.ByID(propertyID)
	if err != nil {
		return nil, err
	}

	// Walk the state machine the way the checkout page would, so a request
	// that skips a step fails the same way the UI forbids it.
	flow := payment.NewFlow()
	if err := flow.SelectOption(opt); err != nil {
		return nil, err
	}
	if opt == payment.OptionDownPayment {
		if err := flow.ChoosePlan(plan); err != nil {
			return nil, err
		}
	}
	if err := flow.ChooseMethod(method); err != nil {
		return nil, err
	}
	if err := flow.Confirm(); err != nil {
		return nil, err
	}

	quote, err := payment.BuildQuote(prop, opt, plan, method, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.users.ReplacePayment(ctx, userID, quote.Payment); err != nil {
		return nil, fmt.Errorf("service/payment: recording payment: %w", err)
	}

	kind := payment.HoldingKindFor(opt)
	if err := s.users.GrantHolding(ctx, userID, propertyID, kind); err != nil {
		return nil, fmt.Errorf("service/payment: granting holding: %w", err)
	}

	if err := flow.MarkPersisted(); err != nil {
		return nil, err
	}

	s.logger.Info("purchase confirmed",
		slog.String("userID", userID),
		slog.String("propertyID", propertyID),
		slog.String("option", string(opt)),
		slog.Int64("amount", quote.Amount),
	)

	return &Receipt{
		PropertyID:    propertyID,
		PropertyName:  prop.Name,
		Kind:          kind,
		Payment:       quote.Payment,
		AmountDisplay: money.FormatRupiah(quote.Amount),
		PaidAt:        quote.Payment.Date.Format("02/01/2006"),
	}, nil
}

// Payments returns the user's payment sequence, oldest first.
func (s *PaymentService) Payments(ctx context.Context, userID string) ([]model.Payment, error) {
	return s.users.ListPayments(ctx, userID)
}
