package auth

import (
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/transport"
	"github.com/frahmantamala/futsal-booking/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(tokenString string) (user.Actor, error)
	Session(actor user.Actor) SessionView
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	SessionCookie string
}

func NewHandler(svc ServiceAPI, sessionCookie string, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		SessionCookie: sessionCookie,
	}
}

func (h *Handler) sessionToken(r *http.Request) string {
	if token := h.ExtractTokenFromHeader(r); token != "" {
		return token
	}
	if h.SessionCookie == "" {
		return ""
	}
	if c, err := r.Cookie(h.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware resolves the session token into an Actor and stores
// both on the request context. The raw token is forwarded to the backend.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			h.Logger.Warn("session middleware: missing session token")
			h.HandleError(w, errors.NewUnauthorizedError("missing session token", errors.ErrCodeInvalidToken))
			return
		}

		actor, err := h.Service.Authenticate(token)
		if err != nil {
			h.Logger.Warn("session middleware: token rejected", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := user.ContextWithActor(r.Context(), actor)
		ctx = errors.ContextWithToken(ctx, token)
		ctx = logger.With(ctx, "actor_id", actor.ID, "role", string(actor.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSession handles GET /api/v1/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Session(actor))
}
