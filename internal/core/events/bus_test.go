package events_test

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/futsal-booking/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		at  time.Time
	)

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		at = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	})

	It("should deliver asynchronously and drain on Wait", func() {
		var delivered atomic.Int32
		bus.Subscribe(events.EventTypeBookingTransitioned, func(ctx context.Context, e events.Event) error {
			delivered.Add(1)
			return nil
		})
		bus.Subscribe(events.EventTypeBookingTransitioned, func(ctx context.Context, e events.Event) error {
			delivered.Add(1)
			return stderrors.New("ignored")
		})

		err := bus.Publish(context.Background(), events.NewBookingTransitionedEvent(1, "pending", "confirmed", 7, "operator_lapangan", "", at))

		Expect(err).NotTo(HaveOccurred())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(delivered.Load()).To(Equal(int32(2)))
	})

	It("should keep handlers running after the caller's context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypeBookingTransitioned, func(hctx context.Context, e events.Event) error {
			handlerErr.Store(hctx.Err() == nil)
			return nil
		})
		cancel()

		Expect(bus.Publish(ctx, events.NewBookingTransitionedEvent(1, "pending", "cancelled", 42, "penyewa", "", at))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(handlerErr.Load()).To(Equal(true))
	})

	It("should ignore events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.NewPaymentProcessedEvent(5, 1, "verify", "verified", decimal.Zero, 21, "staff_kasir", "", at))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewPaymentProcessedEvent(5, 1, "verify", "verified", decimal.Zero, 21, "staff_kasir", "", at))).To(Succeed())
	})

	It("should stop PublishSync at the first failing handler", func() {
		var calls int
		bus.Subscribe(events.EventTypePaymentProcessed, func(ctx context.Context, e events.Event) error {
			calls++
			return stderrors.New("audit sink down")
		})
		bus.Subscribe(events.EventTypePaymentProcessed, func(ctx context.Context, e events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewPaymentProcessedEvent(5, 1, "reject", "rejected", decimal.NewFromInt(1), 21, "staff_kasir", "wrong amount", at))

		Expect(err).To(MatchError(ContainSubstring("audit sink down")))
		Expect(calls).To(Equal(1))
	})

	It("should give up waiting when the context ends", func() {
		release := make(chan struct{})
		bus.Subscribe(events.EventTypeBookingTransitioned, func(ctx context.Context, e events.Event) error {
			<-release
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewBookingTransitionedEvent(1, "pending", "confirmed", 7, "operator_lapangan", "", at))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		Expect(bus.Wait(ctx)).To(MatchError(context.DeadlineExceeded))
		close(release)
		Expect(bus.Wait(context.Background())).To(Succeed())
	})
})

var _ = Describe("Event constructors", func() {
	at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	It("should build a booking transition event", func() {
		e := events.NewBookingTransitionedEvent(1, "pending", "rejected", 7, "operator_lapangan", "field closed", at)

		Expect(e.EventType()).To(Equal("booking.transitioned"))
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).To(Equal(at))
		Expect(e.Payload()).To(HaveKeyWithValue("status_to", "rejected"))
		Expect(e.Payload()).To(HaveKeyWithValue("reason", "field closed"))
	})

	It("should give every event its own id", func() {
		a := events.NewBookingTransitionedEvent(1, "pending", "confirmed", 7, "operator_lapangan", "", at)
		b := events.NewBookingTransitionedEvent(1, "pending", "confirmed", 7, "operator_lapangan", "", at)

		Expect(a.EventID()).NotTo(Equal(b.EventID()))
	})

	It("should carry the amount as a string in the payload", func() {
		e := events.NewPaymentProcessedEvent(5, 1, "verify", "verified", decimal.NewFromInt(150000), 21, "staff_kasir", "", at)

		Expect(e.EventType()).To(Equal("payment.processed"))
		Expect(e.Payload()).To(HaveKeyWithValue("amount", "150000"))
	})
})
