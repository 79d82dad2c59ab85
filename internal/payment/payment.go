package payment

import (
	"fmt"
	"time"

	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusVerified || s == StatusRejected
}

func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusRejected
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown payment status: %s", s)
	}
	return st, nil
}

// Action is what a cashier does to a pending payment.
type Action string

const (
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
)

func (a Action) IsValid() bool {
	return a == ActionVerify || a == ActionReject
}

// ResultStatus is the payment status an accepted action leads to.
func (a Action) ResultStatus() Status {
	if a == ActionVerify {
		return StatusVerified
	}
	return StatusRejected
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown payment action: %s", s)
	}
	return a, nil
}

func AllActions() []Action {
	return []Action{ActionVerify, ActionReject}
}

type Payment struct {
	ID         int64           `json:"id"`
	BookingID  int64           `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Status     Status          `json:"status"`
	VerifiedBy *int64          `json:"verified_by,omitempty"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// Processed returns a copy of p after action, stamped with actor and at.
func (p *Payment) Processed(action Action, actor user.Actor, reason string, at time.Time) *Payment {
	cp := *p
	actorID := actor.ID
	stamp := at
	cp.Status = action.ResultStatus()
	cp.VerifiedBy = &actorID
	cp.VerifiedAt = &stamp
	if reason != "" {
		cp.Notes = reason
	}
	return &cp
}

func FromDataModel(p *paymentDatamodel.Payment) (*Payment, error) {
	status, err := ParseStatus(p.Status)
	if err != nil {
		return nil, fmt.Errorf("payment %d: %w", p.ID, err)
	}
	return &Payment{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Amount:     p.Amount,
		Method:     p.Method,
		Status:     status,
		VerifiedBy: p.VerifiedBy,
		VerifiedAt: p.VerifiedAt,
		Notes:      p.Notes,
	}, nil
}

func FromDataModelSlice(payments []*paymentDatamodel.Payment) ([]*Payment, error) {
	result := make([]*Payment, 0, len(payments))
	for _, p := range payments {
		if p == nil {
			continue
		}
		domain, err := FromDataModel(p)
		if err != nil {
			return nil, err
		}
		result = append(result, domain)
	}
	return result, nil
}

func ToDataModel(p *Payment) *paymentDatamodel.Payment {
	return &paymentDatamodel.Payment{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Amount:     p.Amount,
		Method:     p.Method,
		Status:     string(p.Status),
		VerifiedBy: p.VerifiedBy,
		VerifiedAt: p.VerifiedAt,
		Notes:      p.Notes,
	}
}
