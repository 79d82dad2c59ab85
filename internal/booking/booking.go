package booking

import (
	"fmt"
	"time"

	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// DateLayout is the calendar-day format the backend uses for booking dates.
const DateLayout = "2006-01-02"

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition is defined out of s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
	return st, nil
}

func AllStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected}
}

type Booking struct {
	ID            int64           `json:"id"`
	BookingCode   string          `json:"booking_code"`
	Status        Status          `json:"status"`
	FieldID       int64           `json:"field_id"`
	Date          time.Time       `json:"date"`
	TimeSlot      string          `json:"time_slot"`
	DurationHours int             `json:"duration_hours"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ConfirmedBy   *int64          `json:"confirmed_by,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CompletedBy   *int64          `json:"completed_by,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

func (b *Booking) IsOwnedBy(customerID int64) bool {
	return b.CustomerID == customerID
}

// Transitioned returns a copy of b moved to status to, stamping the
// confirmation or completion fields with actor and at. The receiver is not modified.
func (b *Booking) Transitioned(to Status, actor user.Actor, at time.Time) *Booking {
	next := b.clone()
	next.Status = to

	actorID := actor.ID
	stamp := at
	switch to {
	case StatusConfirmed:
		next.ConfirmedBy = &actorID
		next.ConfirmedAt = &stamp
	case StatusCompleted:
		next.CompletedBy = &actorID
		next.CompletedAt = &stamp
	}
	return next
}

func (b *Booking) clone() *Booking {
	cp := *b
	if b.ConfirmedBy != nil {
		v := *b.ConfirmedBy
		cp.ConfirmedBy = &v
	}
	if b.ConfirmedAt != nil {
		v := *b.ConfirmedAt
		cp.ConfirmedAt = &v
	}
	if b.CompletedBy != nil {
		v := *b.CompletedBy
		cp.CompletedBy = &v
	}
	if b.CompletedAt != nil {
		v := *b.CompletedAt
		cp.CompletedAt = &v
	}
	return &cp
}

func ToDataModel(b *Booking) *bookingDatamodel.Booking {
	var date string
	if !b.Date.IsZero() {
		date = b.Date.Format(DateLayout)
	}
	return &bookingDatamodel.Booking{
		ID:            b.ID,
		BookingCode:   b.BookingCode,
		Status:        string(b.Status),
		FieldID:       b.FieldID,
		Date:          date,
		TimeSlot:      b.TimeSlot,
		DurationHours: b.DurationHours,
		TotalAmount:   b.TotalAmount,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		ConfirmedBy:   b.ConfirmedBy,
		ConfirmedAt:   b.ConfirmedAt,
		CompletedBy:   b.CompletedBy,
		CompletedAt:   b.CompletedAt,
	}
}

// FromDataModel rejects rows with an unknown status or a malformed date
// rather than letting them reach the state machine.
func FromDataModel(b *bookingDatamodel.Booking) (*Booking, error) {
	status, err := ParseStatus(b.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", b.ID, err)
	}

	var date time.Time
	if b.Date != "" {
		date, err = time.Parse(DateLayout, b.Date)
		if err != nil {
			return nil, fmt.Errorf("booking %d: invalid date %q: %w", b.ID, b.Date, err)
		}
	}

	return &Booking{
		ID:            b.ID,
		BookingCode:   b.BookingCode,
		Status:        status,
		FieldID:       b.FieldID,
		Date:          date,
		TimeSlot:      b.TimeSlot,
		DurationHours: b.DurationHours,
		TotalAmount:   b.TotalAmount,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		ConfirmedBy:   b.ConfirmedBy,
		ConfirmedAt:   b.ConfirmedAt,
		CompletedBy:   b.CompletedBy,
		CompletedAt:   b.CompletedAt,
	}, nil
}

func FromDataModelSlice(bookings []*bookingDatamodel.Booking) ([]*Booking, error) {
	result := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		domain, err := FromDataModel(b)
		if err != nil {
			return nil, err
		}
		result = append(result, domain)
	}
	return result, nil
}
