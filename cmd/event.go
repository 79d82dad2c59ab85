package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/backend"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/frahmantamala/futsal-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Replay lifecycle events through the in-process event handlers`,
}

var replayTransitionCmd = &cobra.Command{
	Use:   "replay-transition",
	Short: "Replay a booking.transitioned event",
	Long:  `Publish a booking.transitioned event synchronously, e.g. to re-run the pending payment check after a cancellation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return replayTransition(cmd.Context())
	},
}

var (
	replayBookingID int64
	replayFrom      string
	replayTo        string
	replayToken     string
)

func replayTransition(ctx context.Context) error {
	if replayBookingID <= 0 {
		return fmt.Errorf("--booking-id is required")
	}

	cfg := mustLoadConfig()
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	client := backend.NewClient(cfg.Backend, lg)
	payment.NewEventHandler(client, lg).RegisterEventHandlers(bus)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx = internal.ContextWithToken(ctx, replayToken)

	event := events.NewBookingTransitionedEvent(replayBookingID, replayFrom, replayTo, 0, "cli", "", time.Now())
	lg.Info("replaying event", "event_type", event.EventType(), "event_id", event.EventID(), "booking_id", replayBookingID)

	return bus.PublishSync(ctx, event)
}

func init() {
	replayTransitionCmd.Flags().Int64Var(&replayBookingID, "booking-id", 0, "Booking the event refers to")
	replayTransitionCmd.Flags().StringVar(&replayFrom, "from", "pending", "Previous booking status")
	replayTransitionCmd.Flags().StringVar(&replayTo, "to", "cancelled", "New booking status")
	replayTransitionCmd.Flags().StringVar(&replayToken, "token", "", "Session token forwarded to the backend")

	eventCmd.AddCommand(replayTransitionCmd)
}
