package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/futsal-booking/internal"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/transport"
	"github.com/go-chi/chi"
)

type Reader interface {
	GetBooking(ctx context.Context, bookingID int64) (*bookingDatamodel.Booking, error)
}

// AccessPolicy decides whether actor may see a booking owned by ownerID.
type AccessPolicy interface {
	CanAccessBooking(actor user.Actor, ownerID int64) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Reader  Reader
	Access  AccessPolicy
	Now     func() time.Time
}

func NewHandler(service ServiceAPI, reader Reader, access AccessPolicy, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
		Reader:      reader,
		Access:      access,
		Now:         time.Now,
	}
}

func (h *Handler) loadBooking(w http.ResponseWriter, r *http.Request, actor user.Actor, op string) (*Booking, bool) {
	bookingIDStr := chi.URLParam(r, "id")
	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.Logger.Error(op+": invalid booking ID", "id", bookingIDStr)
		h.HandleError(w, errors.NewValidationError("invalid booking ID", errors.ErrCodeValidationFailed))
		return nil, false
	}

	row, err := h.Reader.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.Logger.Error(op+": failed to load booking", "error", err, "booking_id", bookingID)
		h.HandleServiceError(w, err)
		return nil, false
	}

	b, err := FromDataModel(row)
	if err != nil {
		h.Logger.Error(op+": malformed booking", "error", err, "booking_id", bookingID)
		h.HandleError(w, errors.NewInternalError("malformed booking record", err))
		return nil, false
	}

	if h.Access != nil && !h.Access.CanAccessBooking(actor, b.CustomerID) {
		h.Logger.Warn(op+": booking not accessible", "booking_id", b.ID, "actor_id", actor.ID)
		h.HandleError(w, errors.ErrBookingNotFound)
		return nil, false
	}
	return b, true
}

// GetPermittedTransitions handles GET /api/v1/bookings/{id}/transitions
func (h *Handler) GetPermittedTransitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("GetPermittedTransitions: actor not found in context")
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	b, ok := h.loadBooking(w, r, actor, "GetPermittedTransitions")
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, PermittedTransitionsResponse{
		BookingID:   b.ID,
		Status:      b.Status,
		Transitions: h.Service.PermittedTransitions(actor, b),
	})
}

// RequestTransition handles POST /api/v1/bookings/{id}/transitions
func (h *Handler) RequestTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("RequestTransition: actor not found in context")
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	var req TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("RequestTransition: invalid request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := req.Validate(); err != nil {
		h.Logger.Error("RequestTransition: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	b, ok := h.loadBooking(w, r, actor, "RequestTransition")
	if !ok {
		return
	}

	updated, err := h.Service.RequestTransition(r.Context(), b, Status(req.Status), actor, req.Reason, h.Now())
	if err != nil {
		h.Logger.Error("RequestTransition: service error",
			"error", err,
			"booking_id", b.ID,
			"actor_id", actor.ID,
			"target_status", req.Status)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}
