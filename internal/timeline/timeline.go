package timeline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	errors "github.com/frahmantamala/futsal-booking/internal"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
)

type EventType string

const (
	EventTypeStatusChange EventType = "status_change"
	EventTypePayment      EventType = "payment"
)

// rank orders event types that share a timestamp; status changes come first.
func (t EventType) rank() int {
	if t == EventTypeStatusChange {
		return 0
	}
	return 1
}

type Source string

const (
	SourceStatusHistory Source = "status_history"
	SourcePaymentLogs   Source = "payment_logs"
)

// Event is one normalized timeline row. StatusFrom and StatusTo are only set
// for status changes.
type Event struct {
	EventType  EventType `json:"event_type"`
	Timestamp  time.Time `json:"timestamp"`
	ActorName  string    `json:"actor_name"`
	ActorRole  string    `json:"actor_role"`
	StatusFrom string    `json:"status_from,omitempty"`
	StatusTo   string    `json:"status_to,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	SourceID   int64     `json:"source_id"`
}

// Timeline is the merged view of one booking. Missing lists the sources that
// failed to load; the events of the other source are still present.
type Timeline struct {
	Events  []Event  `json:"events"`
	Missing []Source `json:"missing,omitempty"`
}

func (t *Timeline) IsPartial() bool {
	return len(t.Missing) > 0
}

func FromStatusChange(r bookingDatamodel.StatusChangeRecord) Event {
	return Event{
		EventType:  EventTypeStatusChange,
		Timestamp:  r.CreatedAt,
		ActorName:  r.ChangedBy,
		ActorRole:  r.ChangedByRole,
		StatusFrom: r.StatusFrom,
		StatusTo:   r.StatusTo,
		Notes:      r.Notes,
		SourceID:   r.ID,
	}
}

// FromPaymentLog folds the action and amount into Notes, followed by the
// log's own notes when present.
func FromPaymentLog(r paymentDatamodel.PaymentLogRecord) Event {
	notes := fmt.Sprintf("%s %s", r.Action, r.Amount.String())
	if n := strings.TrimSpace(r.Notes); n != "" {
		notes += " - " + n
	}
	return Event{
		EventType: EventTypePayment,
		Timestamp: r.CreatedAt,
		ActorName: r.ProcessedBy,
		ActorRole: r.ProcessedByRole,
		Notes:     notes,
		SourceID:  r.ID,
	}
}

func compareEvents(a, b Event) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EventType.rank(), b.EventType.rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SourceID, b.SourceID); c != 0 {
		return c
	}
	// The backend may omit or repeat IDs, so every remaining field takes
	// part to keep the order independent of input order.
	return cmp.Or(
		cmp.Compare(a.Notes, b.Notes),
		cmp.Compare(a.StatusFrom, b.StatusFrom),
		cmp.Compare(a.StatusTo, b.StatusTo),
		cmp.Compare(a.ActorName, b.ActorName),
		cmp.Compare(a.ActorRole, b.ActorRole),
	)
}

// Merge normalizes both collections and returns them as one list in
// ascending timestamp order. The inputs are not modified and the result does
// not depend on their order.
func Merge(statusRecords []bookingDatamodel.StatusChangeRecord, paymentRecords []paymentDatamodel.PaymentLogRecord) []Event {
	events := make([]Event, 0, len(statusRecords)+len(paymentRecords))
	for _, r := range statusRecords {
		events = append(events, FromStatusChange(r))
	}
	for _, r := range paymentRecords {
		events = append(events, FromPaymentLog(r))
	}
	slices.SortStableFunc(events, compareEvents)
	return events
}

// StatusResult is the outcome of loading the status history.
type StatusResult struct {
	Records []bookingDatamodel.StatusChangeRecord
	Err     error
}

type PaymentResult struct {
	Records []paymentDatamodel.PaymentLogRecord
	Err     error
}

// PartialDataError reports the sources that failed while the rest of the
// timeline was built.
type PartialDataError struct {
	Failures map[Source]error
}

func (e *PartialDataError) Error() string {
	sources := e.Sources()
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("%s: %v", s, e.Failures[s]))
	}
	return "partial timeline data: " + strings.Join(parts, "; ")
}

// Sources returns the failed sources in a fixed order.
func (e *PartialDataError) Sources() []Source {
	out := make([]Source, 0, len(e.Failures))
	for _, s := range []Source{SourceStatusHistory, SourcePaymentLogs} {
		if _, ok := e.Failures[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (e *PartialDataError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, s := range e.Sources() {
		out = append(out, e.Failures[s])
	}
	return out
}

// Is lets callers match with errors.Is against a PartialData AppError.
func (e *PartialDataError) Is(target error) bool {
	t, ok := target.(*errors.AppError)
	return ok && t.Code == errors.ErrCodePartialData
}

// ErrPartialData matches any *PartialDataError through errors.Is.
var ErrPartialData = &errors.AppError{
	Type:    errors.ErrorTypeExternal,
	Code:    errors.ErrCodePartialData,
	Message: "timeline is incomplete",
}

// MergeResults merges whatever loaded. When either half failed it returns the
// partial timeline together with a *PartialDataError.
func MergeResults(status StatusResult, payment PaymentResult) (*Timeline, error) {
	failures := make(map[Source]error)

	statusRecords := status.Records
	if status.Err != nil {
		failures[SourceStatusHistory] = status.Err
		statusRecords = nil
	}
	paymentRecords := payment.Records
	if payment.Err != nil {
		failures[SourcePaymentLogs] = payment.Err
		paymentRecords = nil
	}

	t := &Timeline{Events: Merge(statusRecords, paymentRecords)}
	if len(failures) == 0 {
		return t, nil
	}

	perr := &PartialDataError{Failures: failures}
	t.Missing = perr.Sources()
	return t, perr
}
