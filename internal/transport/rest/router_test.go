package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/auth"
	"github.com/frahmantamala/futsal-booking/internal/backend"
	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
	"github.com/frahmantamala/futsal-booking/internal/core/user"
	"github.com/frahmantamala/futsal-booking/internal/dashboard"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/frahmantamala/futsal-booking/internal/timeline"
	"github.com/frahmantamala/futsal-booking/internal/transport/rest"
)

const openAPIPath = "../../../api/openapi.yml"

// fakeBackend serves the booking backend's REST contract from memory.
type fakeBackend struct {
	mu       sync.Mutex
	patched  []string
	tokens   []string
	bookings map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{bookings: map[string]string{
		"1": `{"id":1,"booking_code":"BK-0001","status":"pending","field_id":3,"date":"2026-10-15","time_slot":"19:00","duration_hours":1,"total_amount":"100000","customer_id":42,"customer_name":"Sari"}`,
		"2": `{"id":2,"booking_code":"BK-0002","status":"confirmed","field_id":3,"date":"2026-10-16","time_slot":"20:00","duration_hours":1,"total_amount":"50000","customer_id":43,"customer_name":"Andi"}`,
	}}
}

func (f *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	data := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":`+body+`}`)
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.tokens = append(f.tokens, req.Header.Get("Authorization"))
			f.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/bookings", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("customer_id") == "42" {
			data(w, "["+f.bookings["1"]+"]")
			return
		}
		data(w, "["+f.bookings["1"]+","+f.bookings["2"]+"]")
	})
	r.Get("/bookings/{id}", func(w http.ResponseWriter, req *http.Request) {
		b, ok := f.bookings[chi.URLParam(req, "id")]
		if !ok {
			http.Error(w, `{"message":"booking not found"}`, http.StatusNotFound)
			return
		}
		data(w, b)
	})
	r.Patch("/bookings/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		f.mu.Lock()
		f.patched = append(f.patched, chi.URLParam(req, "id")+":"+string(body))
		f.mu.Unlock()
		data(w, "null")
	})
	r.Get("/bookings/{id}/history", func(w http.ResponseWriter, req *http.Request) {
		data(w, `[{"id":1,"booking_id":1,"status_from":"","status_to":"pending","changed_by":"Sari","changed_by_role":"penyewa","created_at":"2026-10-14T08:00:00Z"}]`)
	})
	r.Get("/payments", func(w http.ResponseWriter, req *http.Request) {
		data(w, `[{"id":5,"booking_id":1,"amount":"100000","method":"transfer","status":"pending"}]`)
	})
	r.Get("/payments/{id}", func(w http.ResponseWriter, req *http.Request) {
		data(w, `{"id":5,"booking_id":1,"amount":"100000","method":"transfer","status":"pending"}`)
	})
	r.Get("/payments/{id}/logs", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "upstream timeout", http.StatusGatewayTimeout)
	})
	r.Post("/payments/{id}/{action}", func(w http.ResponseWriter, req *http.Request) {
		data(w, "null")
	})
	return r
}

var _ = Describe("Router", func() {
	var (
		router    *chi.Mux
		fake      *fakeBackend
		upstream  *httptest.Server
		bus       *events.EventBus
		generator *auth.JWTTokenGenerator
	)

	tokenFor := func(id int64, role user.Role) string {
		token, err := generator.GenerateSessionToken(user.Actor{ID: id, Name: "test", Role: role})
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	call := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			raw, _ := json.Marshal(body)
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		fake = newFakeBackend()
		upstream = httptest.NewServer(fake.handler())

		client := backend.NewClient(internal.BackendConfig{BaseURL: upstream.URL, Timeout: 2 * time.Second}, lg)
		bus = events.NewEventBus(lg)
		payment.NewEventHandler(client, lg).RegisterEventHandlers(bus)
		permissions := auth.NewPermissionChecker()
		generator = auth.NewJWTTokenGenerator("0123456789abcdef0123456789abcdef")

		handlers := rest.Handlers{
			Auth:      auth.NewHandler(auth.NewService(generator, permissions, lg), "token", lg),
			RBAC:      auth.NewRBACAuthorization(permissions, lg),
			Booking:   booking.NewHandler(booking.NewService(client, permissions, bus, lg), client, permissions, lg),
			Payment:   payment.NewHandler(payment.NewService(client, permissions, bus, lg), client, lg),
			Timeline:  timeline.NewHandler(timeline.NewService(client, lg), client, client, permissions, lg),
			Dashboard: dashboard.NewHandler(dashboard.NewService(client, permissions, time.UTC, lg), lg),
			Health:    rest.NewHealthHandler(map[string]rest.Pinger{"backend": client}),
		}
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, handlers, rest.Options{AllowedOrigins: []string{"*"}, OpenAPIPath: openAPIPath}, lg)
	})

	AfterEach(func() {
		Expect(bus.Wait(context.Background())).To(Succeed())
		upstream.Close()
	})

	It("should answer probes without a session", func() {
		Expect(call(http.MethodGet, "/api/v1/ping", "", nil).Code).To(Equal(http.StatusOK))

		rec := call(http.MethodGet, "/api/v1/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var health rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &health)).To(Succeed())
		Expect(health.Components).To(HaveKey("backend"))
	})

	It("should report an unreachable backend as unhealthy", func() {
		upstream.Close()

		Expect(call(http.MethodGet, "/api/v1/health", "", nil).Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("should require a session for the API", func() {
		Expect(call(http.MethodGet, "/api/v1/session", "", nil).Code).To(Equal(http.StatusUnauthorized))
		Expect(call(http.MethodGet, "/api/v1/bookings/1/transitions", "", nil).Code).To(Equal(http.StatusUnauthorized))
	})

	It("should confirm a booking end to end and forward the token", func() {
		token := tokenFor(77, user.RoleFieldOperator)

		rec := call(http.MethodPost, "/api/v1/bookings/1/transitions", token, booking.TransitionDTO{Status: "confirmed"})

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(fake.patched).To(ConsistOf(`1:{"status":"confirmed"}`))
		Expect(fake.tokens).To(ContainElement("Bearer " + token))
	})

	It("should not reach the backend for a denied transition", func() {
		rec := call(http.MethodPost, "/api/v1/bookings/1/transitions", tokenFor(42, user.RoleCustomer), booking.TransitionDTO{Status: "confirmed"})

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(fake.patched).To(BeEmpty())
	})

	It("should pass a backend 404 through", func() {
		rec := call(http.MethodGet, "/api/v1/bookings/9/transitions", tokenFor(2, user.RoleSupervisor), nil)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should serve a partial timeline when the payment logs time out", func() {
		rec := call(http.MethodGet, "/api/v1/bookings/1/timeline", tokenFor(42, user.RoleCustomer), nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp timeline.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.PaymentID).To(Equal(int64(5)))
		Expect(resp.Partial).To(BeTrue())
		Expect(resp.Timeline.Events).To(HaveLen(1))
	})

	It("should gate payment actions by role", func() {
		body := payment.ActionDTO{Action: "verify"}

		Expect(call(http.MethodPost, "/api/v1/payments/5/actions", tokenFor(3, user.RoleManager), body).Code).To(Equal(http.StatusForbidden))
		Expect(call(http.MethodPost, "/api/v1/payments/5/actions", tokenFor(21, user.RoleCashier), body).Code).To(Equal(http.StatusOK))
	})

	It("should scope the dashboard to the actor", func() {
		rec := call(http.MethodGet, "/api/v1/dashboard/summary", tokenFor(42, user.RoleCustomer), nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var view dashboard.SummaryView
		Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
		Expect(view.Scope).To(Equal(dashboard.ScopeOwn))
		Expect(view.Counts.Total()).To(Equal(1))

		Expect(call(http.MethodGet, "/api/v1/dashboard/payments", tokenFor(42, user.RoleCustomer), nil).Code).To(Equal(http.StatusForbidden))
		Expect(call(http.MethodGet, "/api/v1/dashboard/payments", tokenFor(21, user.RoleCashier), nil).Code).To(Equal(http.StatusOK))
	})

	It("should serve the OpenAPI document", func() {
		rec := call(http.MethodGet, "/openapi.yml", "", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	Describe("OpenAPI document", func() {
		var doc *openapi3.T

		BeforeEach(func() {
			var err error
			doc, err = openapi3.NewLoader().LoadFromFile(openAPIPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be valid", func() {
			Expect(doc.Validate(context.Background())).To(Succeed())
		})

		It("should describe exactly the mounted API routes", func() {
			mounted := map[string]bool{}
			err := chi.Walk(router, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
				if strings.HasPrefix(route, "/api/v1/") {
					mounted[method+" "+strings.TrimPrefix(route, "/api/v1")] = true
				}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			documented := map[string]bool{}
			for path, item := range doc.Paths.Map() {
				for method := range item.Operations() {
					documented[method+" "+path] = true
				}
			}

			Expect(documented).To(Equal(mounted))
		})
	})
})
