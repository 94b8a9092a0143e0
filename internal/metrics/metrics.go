// Package metrics collects Prometheus metrics for the HTTP surface, the
// donation ledger and the notification queue.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// Recorder is the metrics surface used by middleware, services and workers.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordDonation(amount float64)
	RecordReversal(amount float64)
	RecordDuplicateAdoption()
	RecordNotification(kind, outcome string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	donations         prometheus.Counter
	donatedAmount     prometheus.Counter
	reversals         prometheus.Counter
	reversedAmount    prometheus.Counter
	adoptionDuplicate prometheus.Counter
	notifications     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fureverhome_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fureverhome_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		donations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fureverhome_donations_total",
			Help: "Donations recorded.",
		}),
		donatedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fureverhome_donated_amount_total",
			Help: "Sum of recorded donation amounts.",
		}),
		reversals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fureverhome_donation_reversals_total",
			Help: "Donations reversed (refunded).",
		}),
		reversedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fureverhome_reversed_amount_total",
			Help: "Sum of reversed donation amounts.",
		}),
		adoptionDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fureverhome_adoption_duplicates_total",
			Help: "Adoption requests suppressed as duplicates.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fureverhome_notifications_total",
			Help: "Notification deliveries by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.donations,
		c.donatedAmount,
		c.reversals,
		c.reversedAmount,
		c.adoptionDuplicate,
		c.notifications,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordDonation(amount float64) {
	c.donations.Inc()
	c.donatedAmount.Add(amount)
}

func (c *Collector) RecordReversal(amount float64) {
	c.reversals.Inc()
	c.reversedAmount.Add(amount)
}

func (c *Collector) RecordDuplicateAdoption() {
	c.adoptionDuplicate.Inc()
}

func (c *Collector) RecordNotification(kind, outcome string) {
	c.notifications.WithLabelValues(kind, outcome).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where metrics are not wired, e.g. CLI commands.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordDonation(float64)                               {}
func (Nop) RecordReversal(float64)                               {}
func (Nop) RecordDuplicateAdoption()                             {}
func (Nop) RecordNotification(string, string)                    {}
