package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the booking row as returned by the backend REST API.
type Booking struct {
	ID            int64           `json:"id"`
	BookingCode   string          `json:"booking_code"`
	Status        string          `json:"status"`
	FieldID       int64           `json:"field_id"`
	Date          string          `json:"date"` // YYYY-MM-DD
	TimeSlot      string          `json:"time_slot"`
	DurationHours int             `json:"duration_hours"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ConfirmedBy   *int64          `json:"confirmed_by,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CompletedBy   *int64          `json:"completed_by,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StatusChangeRecord is one row of a booking's status history.
type StatusChangeRecord struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	StatusFrom    string    `json:"status_from"`
	StatusTo      string    `json:"status_to"`
	ChangedBy     string    `json:"changed_by"`
	ChangedByRole string    `json:"changed_by_role"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransitionRequest is the body sent to the backend to change a booking status.
type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BookingFilter narrows a booking listing; zero values are omitted from the query.
type BookingFilter struct {
	Status     string
	Date       string
	FieldID    int64
	CustomerID int64
}
