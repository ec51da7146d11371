// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics groups the HTTP and domain collectors. A nil *Metrics records nothing.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	QuotesTotal      *prometheus.CounterVec
	ResolutionsTotal *prometheus.CounterVec
	CouponLookups    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg (the default registerer when nil).
// Collectors already registered under the same name are reused.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quotes_total",
			Help:      "Order summaries computed, by pricing context and total source.",
		}, []string{"context", "total_source"}),
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variant_resolutions_total",
			Help:      "Variant selection resolutions, by resulting selection state.",
		}, []string{"state"}),
		CouponLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_lookups_total",
			Help:      "Coupon code lookups, by result.",
		}, []string{"result"}),
	}

	m.RequestsTotal = register(reg, m.RequestsTotal)
	m.RequestDuration = register(reg, m.RequestDuration)
	m.QuotesTotal = register(reg, m.QuotesTotal)
	m.ResolutionsTotal = register(reg, m.ResolutionsTotal)
	m.CouponLookups = register(reg, m.CouponLookups)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(float64(elapsed) / float64(time.Millisecond))
}

// RecordQuote records one computed order summary.
func (m *Metrics) RecordQuote(pricingContext, totalSource string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(pricingContext, totalSource).Inc()
}

// RecordResolution records the state a selection change ended in.
func (m *Metrics) RecordResolution(state string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(state).Inc()
}

// RecordCouponLookup records a coupon lookup outcome ("applied", "invalid", "not_found", "error").
func (m *Metrics) RecordCouponLookup(result string) {
	if m == nil {
		return
	}
	m.CouponLookups.WithLabelValues(result).Inc()
}
