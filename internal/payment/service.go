package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
)

type Submitter interface {
	SubmitPaymentAction(ctx context.Context, paymentID int64, action Action, reason string) error
}

type PermissionPolicy interface {
	CanProcessPayment(role user.Role, action Action) bool
	PermittedPaymentActions(role user.Role) []Action
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	ProcessAction(ctx context.Context, p *Payment, action Action, actor user.Actor, reason string, at time.Time) (*Payment, error)
	PermittedActions(actor user.Actor, p *Payment) []Action
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

func (s *Service) PermittedActions(actor user.Actor, p *Payment) []Action {
	if p == nil || p.Status != StatusPending {
		return []Action{}
	}
	return s.policy.PermittedPaymentActions(actor.Role)
}

// ProcessAction verifies or rejects a pending payment on behalf of actor.
func (s *Service) ProcessAction(ctx context.Context, p *Payment, action Action, actor user.Actor, reason string, at time.Time) (*Payment, error) {
	if p == nil {
		return nil, errors.ErrPaymentNotFound
	}
	if !action.IsValid() {
		return nil, errors.NewValidationFieldError("action", "unknown payment action", errors.ErrCodeInvalidAction)
	}

	if !s.policy.CanProcessPayment(actor.Role, action) {
		s.logger.Warn("payment action denied: insufficient permissions",
			"payment_id", p.ID,
			"actor_id", actor.ID,
			"role", actor.Role,
			"action", action)
		return nil, errors.ErrPermissionDenied
	}

	if p.Status.IsTerminal() {
		s.logger.Warn("payment already processed",
			"payment_id", p.ID,
			"current_status", p.Status,
			"action", action)
		return nil, errors.ErrTerminalStateViolation
	}
	if p.Status != StatusPending {
		return nil, errors.ErrInvalidStateTransition
	}

	reason = strings.TrimSpace(reason)
	if action == ActionReject && reason == "" {
		return nil, errors.ErrMissingReason
	}

	if err := s.submitter.SubmitPaymentAction(ctx, p.ID, action, reason); err != nil {
		s.logger.Error("failed to submit payment action",
			"error", err,
			"payment_id", p.ID,
			"action", action)
		return nil, err
	}

	updated := p.Processed(action, actor, reason, at)

	s.logger.Info("payment processed",
		"payment_id", p.ID,
		"booking_id", p.BookingID,
		"action", action,
		"status", updated.Status,
		"actor_id", actor.ID)

	if s.publisher != nil {
		event := events.NewPaymentProcessedEvent(p.ID, p.BookingID, string(action), string(updated.Status), p.Amount, actor.ID, string(actor.Role), reason, at)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish payment event", "error", err, "payment_id", p.ID)
		}
	}

	return updated, nil
}
