package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mateusmacedo/go-transit/pkg/application"
)

// Metrics reúne os contadores do serviço, registrados num registry próprio.
type Metrics struct {
	registry     *prometheus.Registry
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	DomainEvents *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		DomainEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_domain_events_total",
			Help: "Total number of domain events delivered, by event name",
		}, []string{"event"}),
	}
}

// Handler expõe o registry no formato de texto do Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware conta as requisições pelo padrão de rota do chi, nunca pelo caminho bruto.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type eventCounter struct {
	events *prometheus.CounterVec
}

func (h *eventCounter) Handle(_ context.Context, event application.DomainEvent) error {
	h.events.WithLabelValues(event.EventName()).Inc()
	return nil
}

// RegisterEventCounter conta cada evento entregue pelo barramento.
func (m *Metrics) RegisterEventCounter(bus application.DomainEventBus, eventNames ...string) {
	handler := &eventCounter{events: m.DomainEvents}
	for _, name := range eventNames {
		bus.RegisterHandler(name, handler)
	}
}
