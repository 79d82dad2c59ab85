package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/backend"
	"github.com/frahmantamala/futsal-booking/internal/timeline"
	"github.com/frahmantamala/futsal-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	timelinePaymentID int64
	timelineToken     string
	timelineJSON      bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <booking-id>",
	Short: "Print the merged activity timeline of a booking",
	Long:  `Fetch the status history and payment logs of a booking from the backend and print them as one ordered timeline`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookingID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || bookingID <= 0 {
			return fmt.Errorf("invalid booking id %q", args[0])
		}
		return runTimeline(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), bookingID)
	},
}

func runTimeline(ctx context.Context, out, errOut io.Writer, bookingID int64) error {
	cfg := mustLoadConfig()
	lg := logger.LoggerWrapper()

	token := timelineToken
	if token == "" {
		token = os.Getenv("SESSION_TOKEN")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = internal.ContextWithToken(ctx, token)
	ctx, cancel := internal.WithTimeout(ctx, cfg.Backend.Timeout)
	defer cancel()

	svc := timeline.NewService(backend.NewClient(cfg.Backend, lg), lg)
	return printTimeline(ctx, out, errOut, svc, bookingID, timelinePaymentID, timelineJSON)
}

// printTimeline writes the timeline to out. A partial timeline is still
// printed, with the warning on errOut.
func printTimeline(ctx context.Context, out, errOut io.Writer, svc timeline.ServiceAPI, bookingID, paymentID int64, asJSON bool) error {
	t, err := svc.Build(ctx, bookingID, paymentID)

	var partial *timeline.PartialDataError
	if err != nil && !errors.As(err, &partial) {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(t); encErr != nil {
			return encErr
		}
	} else if writeErr := writeTimeline(out, t); writeErr != nil {
		return writeErr
	}

	if partial != nil {
		fmt.Fprintf(errOut, "warning: %v\n", partial)
	}
	return nil
}

func writeTimeline(out io.Writer, t *timeline.Timeline) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tACTOR\tROLE\tCHANGE\tNOTES")
	for _, e := range t.Events {
		change := ""
		if e.EventType == timeline.EventTypeStatusChange {
			change = e.StatusFrom + " -> " + e.StatusTo
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.EventType,
			e.ActorName,
			e.ActorRole,
			change,
			e.Notes)
	}
	return tw.Flush()
}

func init() {
	timelineCmd.Flags().Int64Var(&timelinePaymentID, "payment-id", 0, "Payment whose logs are merged in (omit for bookings without payment)")
	timelineCmd.Flags().StringVar(&timelineToken, "token", "", "Session token forwarded to the backend (default $SESSION_TOKEN)")
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "Print the timeline as JSON")
}
