package payment

import (
	"context"
	"fmt"
	"log/slog"

	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
)

type Lister interface {
	ListPayments(ctx context.Context, filter paymentDatamodel.PaymentFilter) ([]*paymentDatamodel.Payment, error)
}

// EventHandler flags pending payments left on bookings that were closed
// without being played, so the cashier can follow up.
type EventHandler struct {
	lister Lister
	logger *slog.Logger
}

func NewEventHandler(lister Lister, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		lister: lister,
		logger: logger,
	}
}

func (h *EventHandler) HandleBookingTransitioned(ctx context.Context, event events.Event) error {
	bookingEvent, ok := event.(*events.BookingTransitionedEvent)
	if !ok {
		h.logger.Error("invalid event type for booking transitioned handler", "event_type", event.EventType())
		return fmt.Errorf("expected BookingTransitionedEvent, got %T", event)
	}

	if bookingEvent.StatusTo != "cancelled" && bookingEvent.StatusTo != "rejected" {
		return nil
	}

	payments, err := h.lister.ListPayments(ctx, paymentDatamodel.PaymentFilter{
		BookingID: bookingEvent.BookingID,
		Status:    string(StatusPending),
	})
	if err != nil {
		return fmt.Errorf("list payments for booking %d: %w", bookingEvent.BookingID, err)
	}

	for _, p := range payments {
		if p.Status != string(StatusPending) {
			continue
		}
		h.logger.Warn("pending payment on closed booking",
			"booking_id", bookingEvent.BookingID,
			"payment_id", p.ID,
			"amount", p.Amount.String(),
			"booking_status", bookingEvent.StatusTo,
			"event_id", bookingEvent.EventID())
	}

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeBookingTransitioned, h.HandleBookingTransitioned)

	h.logger.Info("payment event handlers registered",
		"handlers", []string{events.EventTypeBookingTransitioned})
}
