package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/timeline"
)

var _ = Describe("permissions command", func() {
	It("should print one row per role", func() {
		out := &bytes.Buffer{}

		Expect(writePermissions(out, user.AllRoles())).To(Succeed())

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(6))
		Expect(lines[0]).To(HavePrefix("ROLE"))
		Expect(out.String()).To(ContainSubstring("pending->cancelled"))
	})

	It("should print a dash for a role without rules", func() {
		out := &bytes.Buffer{}

		Expect(writePermissions(out, []user.Role{user.RoleCashier})).To(Succeed())

		fields := strings.Fields(strings.Split(strings.TrimSpace(out.String()), "\n")[1])
		Expect(fields).To(Equal([]string{"staff_kasir", "-", "verify,", "reject"}))
	})
})

var _ = Describe("timeline command", func() {
	It("should render status changes and payments", func() {
		at := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
		t := &timeline.Timeline{Events: []timeline.Event{
			{EventType: timeline.EventTypeStatusChange, Timestamp: at, ActorName: "Budi", ActorRole: "operator_lapangan", StatusFrom: "pending", StatusTo: "confirmed"},
			{EventType: timeline.EventTypePayment, Timestamp: at.Add(time.Hour), ActorName: "Rina", ActorRole: "staff_kasir", Notes: "verify 150000"},
		}}
		out := &bytes.Buffer{}

		Expect(writeTimeline(out, t)).To(Succeed())

		Expect(out.String()).To(ContainSubstring("pending -> confirmed"))
		Expect(out.String()).To(ContainSubstring("2026-10-15 09:00:00"))
		Expect(out.String()).To(ContainSubstring("verify 150000"))
	})
})

type stubTimelineService struct {
	timeline *timeline.Timeline
	err      error
}

func (s *stubTimelineService) Build(ctx context.Context, bookingID, paymentID int64) (*timeline.Timeline, error) {
	return s.timeline, s.err
}

var _ = Describe("printTimeline", func() {
	var (
		out    *bytes.Buffer
		errOut *bytes.Buffer
		events []timeline.Event
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		errOut = &bytes.Buffer{}
		events = []timeline.Event{
			{EventType: timeline.EventTypeStatusChange, Timestamp: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC), ActorName: "Budi", StatusFrom: "pending", StatusTo: "confirmed"},
		}
	})

	It("should print a partial timeline and warn on the error writer", func() {
		// Given
		partial := &timeline.PartialDataError{Failures: map[timeline.Source]error{
			timeline.SourcePaymentLogs: errors.New("gateway timeout"),
		}}
		svc := &stubTimelineService{
			timeline: &timeline.Timeline{Events: events, Missing: []timeline.Source{timeline.SourcePaymentLogs}},
			err:      partial,
		}

		// When
		err := printTimeline(context.Background(), out, errOut, svc, 1, 5, false)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("pending -> confirmed"))
		Expect(out.String()).NotTo(ContainSubstring("warning"))
		Expect(errOut.String()).To(HavePrefix("warning: partial timeline data"))
		Expect(errOut.String()).To(ContainSubstring("payment_logs: gateway timeout"))
	})

	It("should leave the error writer empty for a complete timeline", func() {
		svc := &stubTimelineService{timeline: &timeline.Timeline{Events: events}}

		Expect(printTimeline(context.Background(), out, errOut, svc, 1, 0, true)).To(Succeed())

		var decoded timeline.Timeline
		Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
		Expect(decoded.Events).To(HaveLen(1))
		Expect(errOut.String()).To(BeEmpty())
	})

	It("should return errors that are not partial data", func() {
		svc := &stubTimelineService{err: errors.New("backend unreachable")}

		err := printTimeline(context.Background(), out, errOut, svc, 1, 0, false)

		Expect(err).To(MatchError("backend unreachable"))
		Expect(out.String()).To(BeEmpty())
		Expect(errOut.String()).To(BeEmpty())
	})
})

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		GinkgoT().Setenv("APP_ENV", "")
		GinkgoT().Setenv("DOCKER_ENV", "")
	})

	It("should read config.yml and apply defaults", func() {
		content := `
backend:
  base_url: https://backend.futsal.test/api
security:
  jwt_secret: 0123456789abcdef0123456789abcdef
`
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Backend.Timeout).To(Equal(10 * time.Second))
		Expect(cfg.Security.SessionCookie).To(Equal("token"))
		Expect(cfg.Dashboard.Timezone).To(Equal("Asia/Jakarta"))
	})

	It("should reject a short JWT secret", func() {
		content := `
backend:
  base_url: https://backend.futsal.test/api
security:
  jwt_secret: short
`
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600)).To(Succeed())

		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("JWTSecret")))
	})

	It("should fail without a config file", func() {
		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})
