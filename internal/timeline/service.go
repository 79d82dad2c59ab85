package timeline

import (
	"context"
	"fmt"
	"log/slog"

	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"golang.org/x/sync/errgroup"
)

type Fetcher interface {
	FetchBookingHistory(ctx context.Context, bookingID int64) ([]bookingDatamodel.StatusChangeRecord, error)
	FetchPaymentLogs(ctx context.Context, paymentID int64) ([]paymentDatamodel.PaymentLogRecord, error)
}

type ServiceAPI interface {
	Build(ctx context.Context, bookingID, paymentID int64) (*Timeline, error)
}

type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Build loads both audit streams concurrently and merges them. A paymentID of
// zero means the booking has no payment yet; that is not a partial result.
// A failed fetch never cancels the other one.
func (s *Service) Build(ctx context.Context, bookingID, paymentID int64) (*Timeline, error) {
	var (
		status  StatusResult
		payment PaymentResult
		g       errgroup.Group
	)

	g.Go(func() error {
		status.Records, status.Err = s.fetcher.FetchBookingHistory(ctx, bookingID)
		if status.Err != nil {
			return fmt.Errorf("%s: %w", SourceStatusHistory, status.Err)
		}
		return nil
	})

	if paymentID > 0 {
		g.Go(func() error {
			payment.Records, payment.Err = s.fetcher.FetchPaymentLogs(ctx, paymentID)
			if payment.Err != nil {
				return fmt.Errorf("%s: %w", SourcePaymentLogs, payment.Err)
			}
			return nil
		})
	}

	// The group carries no context: a failed fetch does not cancel the other.
	if err := g.Wait(); err != nil {
		s.logger.Debug("timeline source failed", "booking_id", bookingID, "first_error", err)
	}

	t, err := MergeResults(status, payment)
	if err != nil {
		s.logger.Warn("timeline built from partial data",
			"booking_id", bookingID,
			"payment_id", paymentID,
			"missing", t.Missing,
			"error", err)
		return t, err
	}

	s.logger.Debug("timeline built",
		"booking_id", bookingID,
		"payment_id", paymentID,
		"events", len(t.Events))
	return t, nil
}
