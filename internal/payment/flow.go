package payment

import "github.com/prasetya/safestate/internal/apperror"

// State is a step in the purchase flow.
//
// The original UI tracked this implicitly through which radio buttons were
// checked and which panels were hidden. Here it is an explicit machine with
// typed transitions, decoupled from any rendering:
//
//	Idle → OptionSelected → AmountChosen (down payment only)
//	     → MethodChosen → Confirmed → Persisted
//
// Reselecting a top-level option undoes everything after it: picking the
// currently selected option again returns to Idle (the radio-toggle
// behaviour), picking a different one restarts the flow at OptionSelected.
// Persisted is terminal for this purchase attempt; a re-purchase starts a
// fresh Flow and the record store supersedes the prior Payment.
type State int

const (
	StateIdle State = iota
	StateOptionSelected
	StateAmountChosen
	StateMethodChosen
	StateConfirmed
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptionSelected:
		return "optionSelected"
	case StateAmountChosen:
		return "amountChosen"
	case StateMethodChosen:
		return "methodChosen"
	case StateConfirmed:
		return "confirmed"
	case StatePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Flow drives one purchase attempt through the payment states.
// The zero value is not usable; start with NewFlow.
type Flow struct {
	state  State
	option Option
	plan   Plan
	method string
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle}
}

func (f *Flow) State() State   { return f.state }
func (f *Flow) Option() Option { return f.option }
func (f *Flow) Plan() Plan     { return f.plan }
func (f *Flow) Method() string { return f.method }

// SelectOption picks (or toggles off) the top-level payment option.
// Allowed from every state except Persisted.
func (f *Flow) SelectOption(opt Option) error {
	if f.state == StatePersisted {
		return apperror.ValidationFailed("state", "payment already persisted; start a new purchase")
	}
	switch opt {
	case OptionDownPayment, OptionEarnestMoney, OptionFlatEarnest, OptionRental:
	default:
		return apperror.ValidationFailed("option", "unknown payment option")
	}

	// Selecting the active option again deselects it (radio toggle).
	if f.state != StateIdle && f.option == opt {
		f.reset()
		return nil
	}

	f.reset()
	f.state = StateOptionSelected
	f.option = opt
	return nil
}

// ChoosePlan picks the installment scheme. Only the down payment option has
// plans; for it, a plan must be chosen before the method.
func (f *Flow) ChoosePlan(plan Plan) error {
	if f.state != StateOptionSelected && f.state != StateAmountChosen {
		return apperror.ValidationFailed("state", "select a payment option before choosing a plan")
	}
	if f.option != OptionDownPayment {
		return apperror.ValidationFailed("plan", "only down payments have installment plans")
	}
	switch plan {
	case PlanFull, Plan3x, Plan5x:
	default:
		return apperror.ValidationFailed("plan", "unknown down payment plan")
	}

	f.plan = plan
	f.state = StateAmountChosen
	return nil
}

// ChooseMethod records the payment method. Down payments must have a plan
// chosen first; the other options go straight from OptionSelected.
func (f *Flow) ChooseMethod(method string) error {
	switch f.state {
	case StateAmountChosen, StateMethodChosen:
	case StateOptionSelected:
		if f.option == OptionDownPayment {
			return apperror.ValidationFailed("state", "choose a down payment plan before the method")
		}
	default:
		return apperror.ValidationFailed("state", "select a payment option before choosing a method")
	}
	if method == "" {
		return apperror.ValidationFailed("method", "payment method is required")
	}

	f.method = method
	f.state = StateMethodChosen
	return nil
}

// Confirm locks the selection in. After this only MarkPersisted (or a
// top-level reselect) is valid.
func (f *Flow) Confirm() error {
	if f.state != StateMethodChosen {
		return apperror.ValidationFailed("state", "choose a payment method before confirming")
	}
	f.state = StateConfirmed
	return nil
}

// MarkPersisted records that the Payment was written to the store.
// Terminal: no transition leaves Persisted.
func (f *Flow) MarkPersisted() error {
	if f.state != StateConfirmed {
		return apperror.ValidationFailed("state", "confirm the payment before persisting")
	}
	f.state = StatePersisted
	return nil
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.option = ""
	f.plan = ""
	f.method = ""
}
