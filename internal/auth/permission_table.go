package auth

import (
	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/payment"
)

// transitionRules is the static role -> booking transition table. A role
// absent from the map has no booking transitions.
var transitionRules = map[user.Role][]booking.Transition{
	user.RoleCustomer: {
		{From: booking.StatusPending, To: booking.StatusCancelled},
	},
	user.RoleFieldOperator: {
		{From: booking.StatusPending, To: booking.StatusConfirmed},
		{From: booking.StatusPending, To: booking.StatusRejected},
	},
	user.RoleManager: {
		{From: booking.StatusPending, To: booking.StatusConfirmed},
		{From: booking.StatusPending, To: booking.StatusRejected},
		{From: booking.StatusConfirmed, To: booking.StatusCompleted},
	},
	user.RoleSupervisor: booking.AllTransitions(),
}

var paymentActionRules = map[user.Role][]payment.Action{
	user.RoleCashier:    {payment.ActionVerify, payment.ActionReject},
	user.RoleSupervisor: {payment.ActionVerify, payment.ActionReject},
}

// RoleTransitions returns the booking edges role may request, in table order.
func RoleTransitions(role user.Role) []booking.Transition {
	rules := transitionRules[role]
	out := make([]booking.Transition, len(rules))
	copy(out, rules)
	return out
}

func RolePaymentActions(role user.Role) []payment.Action {
	rules := paymentActionRules[role]
	out := make([]payment.Action, len(rules))
	copy(out, rules)
	return out
}
