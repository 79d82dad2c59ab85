package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/futsal-booking/internal/booking"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/payment"
)

type Lister interface {
	ListBookings(ctx context.Context, filter bookingDatamodel.BookingFilter) ([]*bookingDatamodel.Booking, error)
	ListPayments(ctx context.Context, filter paymentDatamodel.PaymentFilter) ([]*paymentDatamodel.Payment, error)
}

type Visibility interface {
	CanViewAllBookings(role user.Role) bool
}

type ServiceAPI interface {
	BookingSummary(ctx context.Context, actor user.Actor) (*SummaryView, error)
	PaymentSummary(ctx context.Context) (*PaymentSummaryView, error)
}

type SummaryView struct {
	Summary
	Date  string `json:"date"`
	Scope string `json:"scope"`
}

type PaymentSummaryView struct {
	PaymentSummary
	GeneratedAt time.Time `json:"generated_at"`
}

const (
	ScopeAll = "all"
	ScopeOwn = "own"
)

// Service loads the collections an actor may see and reduces them. Nothing is
// cached; every call recomputes from a fresh listing.
type Service struct {
	lister     Lister
	visibility Visibility
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

func NewService(lister Lister, visibility Visibility, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		lister:     lister,
		visibility: visibility,
		location:   location,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the wall clock, for tests and the CLI.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.now = clock
	return s
}

func (s *Service) BookingSummary(ctx context.Context, actor user.Actor) (*SummaryView, error) {
	filter := bookingDatamodel.BookingFilter{}
	scope := ScopeAll
	if !s.visibility.CanViewAllBookings(actor.Role) {
		filter.CustomerID = actor.ID
		scope = ScopeOwn
	}

	rows, err := s.lister.ListBookings(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list bookings for dashboard", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	bookings, err := booking.FromDataModelSlice(rows)
	if err != nil {
		return nil, fmt.Errorf("dashboard bookings: %w", err)
	}

	// The backend filter is advisory; never count another customer's booking.
	if scope == ScopeOwn {
		own := bookings[:0]
		for _, b := range bookings {
			if b.IsOwnedBy(actor.ID) {
				own = append(own, b)
			}
		}
		bookings = own
	}

	today := s.now().In(s.location)
	return &SummaryView{
		Summary: Aggregate(bookings, today),
		Date:    today.Format(booking.DateLayout),
		Scope:   scope,
	}, nil
}

func (s *Service) PaymentSummary(ctx context.Context) (*PaymentSummaryView, error) {
	rows, err := s.lister.ListPayments(ctx, paymentDatamodel.PaymentFilter{})
	if err != nil {
		s.logger.Error("failed to list payments for dashboard", "error", err)
		return nil, err
	}

	payments, err := payment.FromDataModelSlice(rows)
	if err != nil {
		return nil, fmt.Errorf("dashboard payments: %w", err)
	}

	return &PaymentSummaryView{
		PaymentSummary: AggregatePayments(payments),
		GeneratedAt:    s.now().In(s.location),
	}, nil
}
