package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/futsal-booking/internal"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/transport"
	"github.com/go-chi/chi"
)

type Reader interface {
	GetPayment(ctx context.Context, paymentID int64) (*paymentDatamodel.Payment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Reader  Reader
	Now     func() time.Time
}

func NewHandler(service ServiceAPI, reader Reader, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
		Reader:      reader,
		Now:         time.Now,
	}
}

// ProcessAction handles POST /api/v1/payments/{id}/actions
func (h *Handler) ProcessAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("ProcessAction: actor not found in context")
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	paymentIDStr := chi.URLParam(r, "id")
	paymentID, err := strconv.ParseInt(paymentIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("ProcessAction: invalid payment ID", "id", paymentIDStr)
		h.HandleError(w, errors.NewValidationError("invalid payment ID", errors.ErrCodeValidationFailed))
		return
	}

	var req ActionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("ProcessAction: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := req.Validate(); err != nil {
		h.Logger.Error("ProcessAction: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	row, err := h.Reader.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.Logger.Error("ProcessAction: failed to load payment", "error", err, "payment_id", paymentID)
		h.HandleServiceError(w, err)
		return
	}

	current, err := FromDataModel(row)
	if err != nil {
		h.Logger.Error("ProcessAction: malformed payment", "error", err, "payment_id", paymentID)
		h.HandleError(w, errors.NewInternalError("malformed payment record", err))
		return
	}

	updated, err := h.Service.ProcessAction(r.Context(), current, Action(req.Action), actor, req.Reason, h.Now())
	if err != nil {
		h.Logger.Error("ProcessAction: service error", "error", err, "payment_id", paymentID, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}
