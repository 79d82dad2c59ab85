package payment

import (
	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/core/common/validation"
)

// ActionDTO is the request body of POST /payments/{id}/actions.
type ActionDTO struct {
	Action string `json:"action" validate:"required,oneof=verify reject"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

func (dto *ActionDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("action", dto.Action).
		Required().
		OneOf(errors.ErrCodeInvalidAction, string(ActionVerify), string(ActionReject))
	validator.Field("reason", dto.Reason).MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
