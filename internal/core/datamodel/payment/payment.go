package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the payment row as returned by the backend REST API.
type Payment struct {
	ID         int64           `json:"id"`
	BookingID  int64           `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
	VerifiedBy *int64          `json:"verified_by,omitempty"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PaymentLogRecord is one processing log entry for a payment.
type PaymentLogRecord struct {
	ID              int64           `json:"id"`
	PaymentID       int64           `json:"payment_id"`
	Action          string          `json:"action"`
	Amount          decimal.Decimal `json:"amount"`
	ProcessedBy     string          `json:"processed_by"`
	ProcessedByRole string          `json:"processed_by_role"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ActionRequest is the body sent to the backend to verify or reject a payment.
type ActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// PaymentFilter narrows a payment listing; zero values are omitted from the query.
type PaymentFilter struct {
	Status    string
	BookingID int64
}
