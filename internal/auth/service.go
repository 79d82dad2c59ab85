package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	apperrors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

// Service turns session tokens into actors.
type Service struct {
	tokenGenerator TokenGenerator
	permissions    PermissionChecker
	logger         *slog.Logger
}

func NewService(tokenGen TokenGenerator, permissions PermissionChecker, logger *slog.Logger) *Service {
	return &Service{
		tokenGenerator: tokenGen,
		permissions:    permissions,
		logger:         logger,
	}
}

// Authenticate validates tokenString and returns the actor it names.
func (s *Service) Authenticate(tokenString string) (user.Actor, error) {
	if tokenString == "" {
		return user.Actor{}, apperrors.ErrInvalidToken
	}

	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return user.Actor{}, err
	}

	actor, err := claims.Actor()
	if err != nil {
		s.logger.Warn("session token carries unknown role", "user_id", claims.UserID, "role", claims.Role)
		return user.Actor{}, apperrors.ErrInvalidToken.WithCause(err)
	}
	if actor.ID <= 0 {
		return user.Actor{}, apperrors.ErrInvalidToken
	}
	return actor, nil
}

func (s *Service) Session(actor user.Actor) SessionView {
	actions := s.permissions.PermittedPaymentActions(actor.Role)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return SessionView{
		Actor:          actor,
		PaymentActions: names,
		ViewAll:        s.permissions.CanViewAllBookings(actor.Role),
	}
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
	now      func() time.Time
}

func NewJWTTokenGenerator(secret string) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: 8 * time.Hour, // one staff shift
		now:      time.Now,
	}
}

// GenerateSessionToken signs a token for actor. The backend normally issues
// sessions; this is used by the CLI and by tests.
func (j *JWTTokenGenerator) GenerateSessionToken(actor user.Actor) (string, error) {
	issuedAt := j.now()

	claims := &Claims{
		UserID: actor.ID,
		Name:   actor.Name,
		Role:   string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   strconv.FormatInt(actor.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
