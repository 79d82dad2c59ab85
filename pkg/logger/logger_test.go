package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/frahmantamala/futsal-booking/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var previous *slog.Logger

	BeforeEach(func() {
		previous = slog.Default()
	})

	AfterEach(func() {
		slog.SetDefault(previous)
	})

	Describe("ParseLevel", func() {
		DescribeTable("maps level names",
			func(name string, expected slog.Level) {
				Expect(logger.ParseLevel(name)).To(Equal(expected))
			},
			Entry("debug", "debug", slog.LevelDebug),
			Entry("upper case", "DEBUG", slog.LevelDebug),
			Entry("warn", "warn", slog.LevelWarn),
			Entry("warning", "warning", slog.LevelWarn),
			Entry("error", "error", slog.LevelError),
			Entry("info", "info", slog.LevelInfo),
			Entry("unknown falls back to info", "verbose", slog.LevelInfo),
		)
	})

	Describe("Configure", func() {
		It("should write JSON records at or above the level", func() {
			var buf bytes.Buffer
			lg := logger.Configure(&buf, "warn", "json")

			lg.Info("dropped")
			lg.Warn("kept", "booking_id", 7)

			var record map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("kept"))
			Expect(record["booking_id"]).To(BeNumerically("==", 7))
		})

		It("should fall back to text for unknown formats", func() {
			var buf bytes.Buffer
			lg := logger.Configure(&buf, "info", "xml")

			lg.Info("hello", "role", "penyewa")

			Expect(buf.String()).To(ContainSubstring("msg=hello"))
			Expect(buf.String()).To(ContainSubstring("role=penyewa"))
		})

		It("should install the logger as the wrapper default", func() {
			var buf bytes.Buffer
			lg := logger.Configure(&buf, "info", "text")

			Expect(logger.LoggerWrapper()).To(BeIdenticalTo(lg))
		})
	})

	Describe("context logger", func() {
		It("should carry fields through With and From", func() {
			var buf bytes.Buffer
			logger.Configure(&buf, "info", "text")

			ctx := logger.With(context.Background(), "request_id", "req-1")
			logger.From(ctx).Info("scoped")

			Expect(buf.String()).To(ContainSubstring("request_id=req-1"))
		})

		It("should report a missing logger from Lookup", func() {
			_, ok := logger.Lookup(context.Background())
			Expect(ok).To(BeFalse())
		})

		It("should find the logger stored by With", func() {
			ctx := logger.With(context.Background(), "k", "v")
			l, ok := logger.Lookup(ctx)
			Expect(ok).To(BeTrue())
			Expect(l).NotTo(BeNil())
		})
	})
})
