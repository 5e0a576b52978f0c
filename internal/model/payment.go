package model

import "time"

// PaymentType identifies which payment option a record was created from.
type PaymentType string

const (
	PaymentDownPayment   PaymentType = "downPayment"
	PaymentEarnestMoney  PaymentType = "earnestMoney"
	PaymentRentalDeposit PaymentType = "rentalDeposit"
)

// Payment is one confirmed payment in a user's payment sequence.
//
// There is at most one Payment per (user, property): paying again for the
// same property supersedes the earlier record rather than appending a
// duplicate. The repository enforces this with the payments primary key.
//
// Plan is the installment scheme for down payments ("full", "3x", "5x") and
// empty for the other types. NextPaymentDate/NextPaymentAmount are set only
// for installment plans; nil means nothing further is scheduled.
type Payment struct {
	PropertyID        string      `json:"propertyId"`
	Type              PaymentType `json:"type"`
	Date              time.Time   `json:"date"`
	Method            string      `json:"method"`
	Plan              string      `json:"plan,omitempty"`
	Amount            int64       `json:"amount"`
	NextPaymentDate   *time.Time  `json:"nextPaymentDate,omitempty"`
	NextPaymentAmount *int64      `json:"nextPaymentAmount,omitempty"`
}
