package booking

import (
	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/common/validation"
)

type TransitionDTO struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled rejected"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

func (dto TransitionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).
		Required().
		OneOf(errors.ErrCodeInvalidStatus,
			string(StatusConfirmed), string(StatusCompleted), string(StatusCancelled), string(StatusRejected))
	v.Field("reason", dto.Reason).MaxLength(500)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PermittedTransitionsResponse struct {
	BookingID   int64    `json:"booking_id"`
	Status      Status   `json:"status"`
	Transitions []Status `json:"transitions"`
}
