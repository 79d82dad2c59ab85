package payment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/payment"
)

var _ = Describe("ActionDTO", func() {
	DescribeTable("Validate",
		func(dto payment.ActionDTO, valid bool) {
			err := dto.Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errors.ErrCodeValidationFailed))
		},
		Entry("verify", payment.ActionDTO{Action: "verify"}, true),
		Entry("reject with reason", payment.ActionDTO{Action: "reject", Reason: "wrong amount"}, true),
		Entry("missing action", payment.ActionDTO{}, false),
		Entry("unknown action", payment.ActionDTO{Action: "refund"}, false),
	)

	It("should tag an unknown action with INVALID_ACTION", func() {
		dto := payment.ActionDTO{Action: "refund"}

		appErr, _ := errors.IsAppError(dto.Validate())
		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(1))
		Expect(details.Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidAction)))
	})
})
