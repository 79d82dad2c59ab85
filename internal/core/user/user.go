package user

import (
	"context"
	"fmt"
)

// Role is the authenticated actor's role. It always comes from the session,
// never from UI state.
type Role string

const (
	RoleCustomer      Role = "penyewa"
	RoleCashier       Role = "staff_kasir"
	RoleFieldOperator Role = "operator_lapangan"
	RoleManager       Role = "manajer_futsal"
	RoleSupervisor    Role = "supervisor_sistem"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleCashier, RoleFieldOperator, RoleManager, RoleSupervisor:
		return true
	default:
		return false
	}
}

// IsStaff is true for every role except the customer.
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleCustomer
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %s", s)
	}
	return r, nil
}

func AllRoles() []Role {
	return []Role{RoleCustomer, RoleCashier, RoleFieldOperator, RoleManager, RoleSupervisor}
}

// Actor is who performs an action, as established by the session token.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type ctxKey string

const contextActorKey ctxKey = "actor"

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

// ActorFromContext is only used at the HTTP edge; the core receives the actor as a parameter.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(contextActorKey).(Actor)
	return a, ok
}
