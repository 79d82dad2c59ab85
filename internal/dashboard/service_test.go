package dashboard_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/futsal-booking/internal/auth"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/dashboard"
)

type mockLister struct {
	bookings      []*bookingDatamodel.Booking
	payments      []*paymentDatamodel.Payment
	bookingFilter bookingDatamodel.BookingFilter
	err           error
}

func (m *mockLister) ListBookings(ctx context.Context, filter bookingDatamodel.BookingFilter) ([]*bookingDatamodel.Booking, error) {
	m.bookingFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func (m *mockLister) ListPayments(ctx context.Context, filter paymentDatamodel.PaymentFilter) ([]*paymentDatamodel.Payment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.payments, nil
}

var _ = Describe("DashboardService", func() {
	var (
		service *dashboard.Service
		lister  *mockLister
		logger  *slog.Logger
		jakarta *time.Location
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		jakarta = time.FixedZone("WIB", 7*60*60)
		lister = &mockLister{
			bookings: []*bookingDatamodel.Booking{
				{ID: 1, Status: "pending", Date: "2026-10-16", TotalAmount: decimal.NewFromInt(100000), CustomerID: 42},
				{ID: 2, Status: "confirmed", Date: "2026-10-15", TotalAmount: decimal.NewFromInt(50000), CustomerID: 43},
			},
			payments: []*paymentDatamodel.Payment{
				{ID: 5, Status: "pending", Amount: decimal.NewFromInt(100000)},
				{ID: 6, Status: "verified", Amount: decimal.NewFromInt(50000)},
			},
		}
		clock := func() time.Time { return time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC) }
		service = dashboard.NewService(lister, auth.NewPermissionChecker(), jakarta, logger).WithClock(clock)
	})

	Describe("BookingSummary", func() {
		It("should summarize every booking for staff", func() {
			view, err := service.BookingSummary(context.Background(), user.Actor{ID: 3, Role: user.RoleManager})

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Scope).To(Equal(dashboard.ScopeAll))
			Expect(view.Date).To(Equal("2026-10-16"))
			Expect(view.Counts.Total()).To(Equal(2))
			Expect(view.Revenue.Equal(decimal.NewFromInt(150000))).To(BeTrue())
			Expect(view.TodayCount).To(Equal(1))
			Expect(lister.bookingFilter.CustomerID).To(BeZero())
		})

		It("should restrict a customer to their own bookings", func() {
			view, err := service.BookingSummary(context.Background(), user.Actor{ID: 42, Role: user.RoleCustomer})

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Scope).To(Equal(dashboard.ScopeOwn))
			Expect(lister.bookingFilter.CustomerID).To(Equal(int64(42)))
			Expect(view.Counts).To(Equal(dashboard.Counts{Pending: 1}))
			Expect(view.Revenue.Equal(decimal.NewFromInt(100000))).To(BeTrue())
		})

		It("should pass listing errors through", func() {
			lister.err = stderrors.New("backend down")

			_, err := service.BookingSummary(context.Background(), user.Actor{ID: 3, Role: user.RoleManager})

			Expect(err).To(MatchError("backend down"))
		})

		It("should fail on a booking with an unknown status", func() {
			lister.bookings = append(lister.bookings, &bookingDatamodel.Booking{ID: 9, Status: "archived"})

			_, err := service.BookingSummary(context.Background(), user.Actor{ID: 3, Role: user.RoleManager})

			Expect(err).To(MatchError(ContainSubstring("archived")))
		})
	})

	Describe("PaymentSummary", func() {
		It("should summarize payments", func() {
			view, err := service.PaymentSummary(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Pending).To(Equal(1))
			Expect(view.VerifiedAmount.Equal(decimal.NewFromInt(50000))).To(BeTrue())
			Expect(view.GeneratedAt.Location()).To(Equal(jakarta))
		})
	})

	Describe("Handler", func() {
		It("should serve the summary for the session actor", func() {
			handler := dashboard.NewHandler(service, logger)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
			req = req.WithContext(user.ContextWithActor(req.Context(), user.Actor{ID: 3, Role: user.RoleManager}))
			recorder := httptest.NewRecorder()

			handler.GetSummary(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var body map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("scope", "all"))
			Expect(body).To(HaveKey("counts"))
			Expect(body).To(HaveKeyWithValue("revenue", "150000"))
		})

		It("should require an actor", func() {
			handler := dashboard.NewHandler(service, logger)
			recorder := httptest.NewRecorder()

			handler.GetSummary(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should map listing failures through the error handler", func() {
			lister.err = stderrors.New("backend down")
			handler := dashboard.NewHandler(service, logger)
			recorder := httptest.NewRecorder()

			handler.GetPaymentSummary(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/payments", nil))

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
