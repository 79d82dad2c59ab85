package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeBookingTransitioned = "booking.transitioned"
	EventTypePaymentProcessed    = "payment.processed"
)

// BookingTransitionedEvent is published once the backend has accepted a status change.
type BookingTransitionedEvent struct {
	BaseEvent
	BookingID  int64  `json:"booking_id"`
	StatusFrom string `json:"status_from"`
	StatusTo   string `json:"status_to"`
	ActorID    int64  `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	Reason     string `json:"reason,omitempty"`
}

func NewBookingTransitionedEvent(bookingID int64, from, to string, actorID int64, actorRole, reason string, at time.Time) *BookingTransitionedEvent {
	return &BookingTransitionedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingTransitioned,
			Timestamp: at,
			Data: map[string]interface{}{
				"booking_id":  bookingID,
				"status_from": from,
				"status_to":   to,
				"actor_id":    actorID,
				"actor_role":  actorRole,
				"reason":      reason,
			},
		},
		BookingID:  bookingID,
		StatusFrom: from,
		StatusTo:   to,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Reason:     reason,
	}
}

type PaymentProcessedEvent struct {
	BaseEvent
	PaymentID int64           `json:"payment_id"`
	BookingID int64           `json:"booking_id"`
	Action    string          `json:"action"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	ActorID   int64           `json:"actor_id"`
	ActorRole string          `json:"actor_role"`
	Reason    string          `json:"reason,omitempty"`
}

func NewPaymentProcessedEvent(paymentID, bookingID int64, action, status string, amount decimal.Decimal, actorID int64, actorRole, reason string, at time.Time) *PaymentProcessedEvent {
	return &PaymentProcessedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentProcessed,
			Timestamp: at,
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"booking_id": bookingID,
				"action":     action,
				"status":     status,
				"amount":     amount.String(),
				"actor_id":   actorID,
				"actor_role": actorRole,
				"reason":     reason,
			},
		},
		PaymentID: paymentID,
		BookingID: bookingID,
		Action:    action,
		Status:    status,
		Amount:    amount,
		ActorID:   actorID,
		ActorRole: actorRole,
		Reason:    reason,
	}
}
