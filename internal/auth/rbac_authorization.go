package auth

import (
	"log/slog"
	"net/http"
	"slices"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/frahmantamala/futsal-booking/internal/transport"
)

type RoleAuthorizer interface {
	CanProcessPayment(role user.Role, action payment.Action) bool
	CanViewAllBookings(role user.Role) bool
}

// RBACAuthorization gates whole routes by role. Finer checks (target status,
// current state) stay in the services.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer RoleAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer RoleAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		logger:      logger,
	}
}

func (ra *RBACAuthorization) check(allowed func(user.Actor) bool, denial string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := user.ActorFromContext(r.Context())
			if !ok {
				ra.logger.WarnContext(r.Context(), "authorization check failed: actor not found in context")
				ra.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
				return
			}

			if !allowed(actor) {
				ra.logger.WarnContext(r.Context(), "access denied: "+denial,
					"actor_id", actor.ID,
					"role", actor.Role)
				ra.HandleError(w, errors.ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePaymentProcessing admits roles that may take at least one payment action.
func (ra *RBACAuthorization) RequirePaymentProcessing() func(http.Handler) http.Handler {
	return ra.check(func(a user.Actor) bool {
		for _, action := range payment.AllActions() {
			if ra.authorizer.CanProcessPayment(a.Role, action) {
				return true
			}
		}
		return false
	}, "cannot process payments")
}

func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.check(func(a user.Actor) bool {
		return ra.authorizer.CanViewAllBookings(a.Role)
	}, "staff role required")
}

func (ra *RBACAuthorization) RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return ra.check(func(a user.Actor) bool {
		return slices.Contains(roles, a.Role)
	}, "role not allowed")
}
