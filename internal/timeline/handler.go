package timeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/futsal-booking/internal"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/transport"
	"github.com/go-chi/chi"
)

type BookingReader interface {
	GetBooking(ctx context.Context, bookingID int64) (*bookingDatamodel.Booking, error)
}

type PaymentLister interface {
	ListPayments(ctx context.Context, filter paymentDatamodel.PaymentFilter) ([]*paymentDatamodel.Payment, error)
}

type AccessPolicy interface {
	CanAccessBooking(actor user.Actor, ownerID int64) bool
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Bookings BookingReader
	Payments PaymentLister
	Access   AccessPolicy
}

func NewHandler(service ServiceAPI, bookings BookingReader, payments PaymentLister, access AccessPolicy, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
		Bookings:    bookings,
		Payments:    payments,
		Access:      access,
	}
}

type Response struct {
	BookingID int64    `json:"booking_id"`
	PaymentID int64    `json:"payment_id,omitempty"`
	Partial   bool     `json:"partial"`
	Warning   string   `json:"warning,omitempty"`
	Timeline  Timeline `json:"timeline"`
}

// GetTimeline handles GET /api/v1/bookings/{id}/timeline
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("GetTimeline: actor not found in context")
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	bookingIDStr := chi.URLParam(r, "id")
	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil || bookingID <= 0 {
		h.Logger.Error("GetTimeline: invalid booking ID", "id", bookingIDStr)
		h.HandleError(w, errors.NewValidationError("invalid booking ID", errors.ErrCodeValidationFailed))
		return
	}

	var paymentID int64
	if raw := r.URL.Query().Get("payment_id"); raw != "" {
		paymentID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || paymentID <= 0 {
			h.Logger.Error("GetTimeline: invalid payment ID", "payment_id", raw)
			h.HandleError(w, errors.NewValidationError("invalid payment ID", errors.ErrCodeValidationFailed))
			return
		}
	}

	if h.Bookings != nil && h.Access != nil {
		b, err := h.Bookings.GetBooking(r.Context(), bookingID)
		if err != nil {
			h.Logger.Error("GetTimeline: failed to load booking", "error", err, "booking_id", bookingID)
			h.HandleServiceError(w, err)
			return
		}
		if !h.Access.CanAccessBooking(actor, b.CustomerID) {
			h.Logger.Warn("GetTimeline: booking not accessible", "booking_id", bookingID, "actor_id", actor.ID)
			h.HandleError(w, errors.ErrBookingNotFound)
			return
		}
	}

	var lookupErr error
	if paymentID == 0 && h.Payments != nil {
		paymentID, lookupErr = h.latestPaymentID(r.Context(), bookingID)
	}

	t, err := h.Service.Build(r.Context(), bookingID, paymentID)
	if lookupErr != nil {
		t, err = withMissingPayments(t, err, lookupErr)
	}
	resp := Response{BookingID: bookingID, PaymentID: paymentID}

	var partial *PartialDataError
	switch {
	case err == nil:
	case stderrors.As(err, &partial):
		if len(partial.Failures) == requestedSources(paymentID, lookupErr) {
			h.Logger.Error("GetTimeline: every source failed", "error", err, "booking_id", bookingID)
			h.HandleError(w, errors.NewExternalError("timeline sources unavailable", err))
			return
		}
		resp.Partial = true
		resp.Warning = err.Error()
	default:
		h.Logger.Error("GetTimeline: service error", "error", err, "booking_id", bookingID)
		h.HandleServiceError(w, err)
		return
	}

	resp.Timeline = *t
	h.WriteJSON(w, http.StatusOK, resp)
}

// latestPaymentID picks the newest payment of the booking; zero when there is none.
func (h *Handler) latestPaymentID(ctx context.Context, bookingID int64) (int64, error) {
	payments, err := h.Payments.ListPayments(ctx, paymentDatamodel.PaymentFilter{BookingID: bookingID})
	if err != nil {
		h.Logger.Warn("GetTimeline: payment lookup failed", "error", err, "booking_id", bookingID)
		return 0, err
	}
	var latest int64
	for _, p := range payments {
		if p.BookingID == bookingID && p.ID > latest {
			latest = p.ID
		}
	}
	return latest, nil
}

// withMissingPayments marks the payment logs as missing when the payment
// itself could not be looked up.
func withMissingPayments(t *Timeline, err, lookupErr error) (*Timeline, error) {
	failures := map[Source]error{SourcePaymentLogs: lookupErr}
	var partial *PartialDataError
	if stderrors.As(err, &partial) {
		for s, e := range partial.Failures {
			failures[s] = e
		}
	} else if err != nil {
		return t, err
	}
	perr := &PartialDataError{Failures: failures}
	t.Missing = perr.Sources()
	return t, perr
}

func requestedSources(paymentID int64, lookupErr error) int {
	if paymentID > 0 || lookupErr != nil {
		return 2
	}
	return 1
}
