package auth

import (
	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/payment"
)

type PermissionChecker interface {
	CanRequestTransition(role user.Role, target booking.Status) bool
	PermittedTransitions(role user.Role, current booking.Status) []booking.Status
	CanProcessPayment(role user.Role, action payment.Action) bool
	PermittedPaymentActions(role user.Role) []payment.Action
	CanViewAllBookings(role user.Role) bool
}

// DefaultPermissionChecker answers from the static role tables. It is
// stateless and safe for concurrent use.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

// GetPermittedTransitions is the pure role/status lookup used by the UI to
// decide which action buttons to render.
func GetPermittedTransitions(role user.Role, current booking.Status) []booking.Status {
	out := make([]booking.Status, 0)
	for _, t := range transitionRules[role] {
		if t.From == current {
			out = append(out, t.To)
		}
	}
	return out
}

func (c *DefaultPermissionChecker) PermittedTransitions(role user.Role, current booking.Status) []booking.Status {
	return GetPermittedTransitions(role, current)
}

// CanRequestTransition reports whether role may ever move a booking to target,
// independent of the booking's current status.
func (c *DefaultPermissionChecker) CanRequestTransition(role user.Role, target booking.Status) bool {
	for _, t := range transitionRules[role] {
		if t.To == target {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) CanProcessPayment(role user.Role, action payment.Action) bool {
	for _, a := range paymentActionRules[role] {
		if a == action {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) PermittedPaymentActions(role user.Role) []payment.Action {
	return RolePaymentActions(role)
}

func (c *DefaultPermissionChecker) CanViewAllBookings(role user.Role) bool {
	return role.IsStaff()
}

// CanAccessBooking lets staff see every booking and customers only their own.
func (c *DefaultPermissionChecker) CanAccessBooking(actor user.Actor, ownerID int64) bool {
	if c.CanViewAllBookings(actor.Role) {
		return true
	}
	return actor.Role == user.RoleCustomer && actor.ID == ownerID
}
