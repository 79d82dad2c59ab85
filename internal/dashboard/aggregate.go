package dashboard

import (
	"time"

	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

type Counts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Rejected  int `json:"rejected"`
}

func (c Counts) Total() int {
	return c.Pending + c.Confirmed + c.Completed + c.Cancelled + c.Rejected
}

type Summary struct {
	Counts     Counts          `json:"counts"`
	Revenue    decimal.Decimal `json:"revenue"`
	TodayCount int             `json:"today_count"`
}

// Aggregate reduces bookings into status counts, total revenue and the number
// of bookings played on today's calendar day in today's location. An empty
// input yields a zero Summary.
func Aggregate(bookings []*booking.Booking, today time.Time) Summary {
	s := Summary{Revenue: decimal.Zero}

	day := now.With(today)
	start, end := day.BeginningOfDay(), day.EndOfDay()

	for _, b := range bookings {
		if b == nil {
			continue
		}

		switch b.Status {
		case booking.StatusPending:
			s.Counts.Pending++
		case booking.StatusConfirmed:
			s.Counts.Confirmed++
		case booking.StatusCompleted:
			s.Counts.Completed++
		case booking.StatusCancelled:
			s.Counts.Cancelled++
		case booking.StatusRejected:
			s.Counts.Rejected++
		}

		s.Revenue = s.Revenue.Add(b.TotalAmount)

		if b.Date.IsZero() {
			continue
		}
		// Booking dates are calendar days; pin them to today's zone before comparing.
		d := time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, today.Location())
		if !d.Before(start) && !d.After(end) {
			s.TodayCount++
		}
	}

	return s
}

type PaymentSummary struct {
	Pending        int             `json:"pending"`
	Verified       int             `json:"verified"`
	Rejected       int             `json:"rejected"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	VerifiedAmount decimal.Decimal `json:"verified_amount"`
}

// AggregatePayments is the cashier view: counts per status plus the money
// still waiting for verification and the money already verified.
func AggregatePayments(payments []*payment.Payment) PaymentSummary {
	s := PaymentSummary{PendingAmount: decimal.Zero, VerifiedAmount: decimal.Zero}

	for _, p := range payments {
		if p == nil {
			continue
		}
		switch p.Status {
		case payment.StatusPending:
			s.Pending++
			s.PendingAmount = s.PendingAmount.Add(p.Amount)
		case payment.StatusVerified:
			s.Verified++
			s.VerifiedAmount = s.VerifiedAmount.Add(p.Amount)
		case payment.StatusRejected:
			s.Rejected++
		}
	}

	return s
}
