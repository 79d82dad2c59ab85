package auth

import (
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator signs and validates session tokens.
type TokenGenerator interface {
	GenerateSessionToken(actor user.Actor) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the authenticated actor. The role claim is the only source
// of the actor's role.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() (user.Actor, error) {
	role, err := user.ParseRole(c.Role)
	if err != nil {
		return user.Actor{}, err
	}
	return user.Actor{ID: c.UserID, Name: c.Name, Role: role}, nil
}

// SessionView is returned by GET /session.
type SessionView struct {
	Actor          user.Actor `json:"actor"`
	PaymentActions []string   `json:"payment_actions"`
	ViewAll        bool       `json:"view_all_bookings"`
}
