package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fxvault"

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	depositsCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deposits",
			Name:      "credited_total",
			Help:      "Deposits credited to user balances, by method.",
		},
		[]string{"method"},
	)

	ipnEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ipn",
			Name:      "events_total",
			Help:      "Payment notifications received, by outcome.",
		},
		[]string{"outcome"},
	)

	withdrawalsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "withdrawals",
			Name:      "requested_total",
			Help:      "Withdrawal requests accepted.",
		},
	)

	investmentsSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "investments",
			Name:      "settled_total",
			Help:      "Investments moved to completed and credited.",
		},
	)

	tradesSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trades",
			Name:      "settled_total",
			Help:      "Trades settled, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		depositsCredited,
		ipnEvents,
		withdrawalsRequested,
		investmentsSettled,
		tradesSettled,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request. route must be the route template, not the raw path.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func DepositCredited(method string) { depositsCredited.WithLabelValues(method).Inc() }

// IPNEvent counts a payment notification outcome (credited, duplicate, rejected, ignored, unauthorized).
func IPNEvent(outcome string) { ipnEvents.WithLabelValues(outcome).Inc() }

func WithdrawalRequested() { withdrawalsRequested.Inc() }

func InvestmentSettled() { investmentsSettled.Inc() }

// TradesSettled adds n settled trades with the given result.
func TradesSettled(result string, n int) {
	if n <= 0 {
		return
	}
	tradesSettled.WithLabelValues(result).Add(float64(n))
}
