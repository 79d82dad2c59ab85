package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
)

// Submitter forwards an accepted transition to the system of record.
type Submitter interface {
	SubmitTransition(ctx context.Context, bookingID int64, target Status, reason string) error
}

// PermissionPolicy answers role questions about booking transitions.
type PermissionPolicy interface {
	CanRequestTransition(role user.Role, target Status) bool
	PermittedTransitions(role user.Role, current Status) []Status
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	RequestTransition(ctx context.Context, b *Booking, target Status, actor user.Actor, reason string, at time.Time) (*Booking, error)
	PermittedTransitions(actor user.Actor, b *Booking) []Status
}

type Service struct {
	submitter Submitter
	policy    PermissionPolicy
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(submitter Submitter, policy PermissionPolicy, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		submitter: submitter,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

// PermittedTransitions lists the statuses actor may move b to right now.
func (s *Service) PermittedTransitions(actor user.Actor, b *Booking) []Status {
	if b == nil || b.IsTerminal() {
		return []Status{}
	}
	return s.policy.PermittedTransitions(actor.Role, b.Status)
}

// RequestTransition validates the move locally, submits it and returns the
// updated copy of b. Nothing is submitted when a local check fails.
func (s *Service) RequestTransition(ctx context.Context, b *Booking, target Status, actor user.Actor, reason string, at time.Time) (*Booking, error) {
	if b == nil {
		return nil, errors.ErrBookingNotFound
	}
	if !target.IsValid() {
		return nil, errors.NewValidationFieldError("status", "unknown target status", errors.ErrCodeInvalidStatus)
	}

	if b.IsTerminal() {
		s.logger.Warn("transition out of terminal status",
			"booking_id", b.ID,
			"current_status", b.Status,
			"target_status", target)
		return nil, errors.ErrTerminalStateViolation
	}

	reason = strings.TrimSpace(reason)
	if RequiresReason(target) && reason == "" {
		return nil, errors.ErrMissingReason
	}

	if !s.policy.CanRequestTransition(actor.Role, target) {
		s.logger.Warn("transition denied: insufficient permissions",
			"booking_id", b.ID,
			"actor_id", actor.ID,
			"role", actor.Role,
			"target_status", target)
		return nil, errors.ErrPermissionDenied
	}

	if !CanTransition(b.Status, target) {
		s.logger.Warn("invalid booking transition",
			"booking_id", b.ID,
			"current_status", b.Status,
			"target_status", target)
		return nil, errors.ErrInvalidStateTransition
	}

	if err := s.submitter.SubmitTransition(ctx, b.ID, target, reason); err != nil {
		s.logger.Error("failed to submit booking transition",
			"error", err,
			"booking_id", b.ID,
			"target_status", target)
		return nil, err
	}

	updated := b.Transitioned(target, actor, at)

	s.logger.Info("booking transitioned",
		"booking_id", b.ID,
		"status_from", b.Status,
		"status_to", target,
		"actor_id", actor.ID,
		"role", actor.Role)

	if s.publisher != nil {
		event := events.NewBookingTransitionedEvent(b.ID, string(b.Status), string(target), actor.ID, string(actor.Role), reason, at)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish booking event", "error", err, "booking_id", b.ID)
		}
	}

	return updated, nil
}
