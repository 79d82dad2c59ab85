package dashboard

import (
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.Logger.Error("GetSummary: actor not found in context")
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	summary, err := h.Service.BookingSummary(r.Context(), actor)
	if err != nil {
		h.Logger.Error("GetSummary: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// GetPaymentSummary handles GET /api/v1/dashboard/payments
func (h *Handler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.PaymentSummary(r.Context())
	if err != nil {
		h.Logger.Error("GetPaymentSummary: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}
